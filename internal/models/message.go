package models

import (
	"time"

	"gorm.io/gorm"
)

type MessageType string

const (
	TextMessage  MessageType = "text"
	ImageMessage MessageType = "image"
	FileMessage  MessageType = "file"
)

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// statusRank orders the delivery lattice: sent < delivered < read.
var statusRank = map[MessageStatus]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusRead:      2,
}

// Advances reports whether moving from s to target is a strictly forward
// transition on the delivery lattice. Unknown statuses never advance.
func (s MessageStatus) Advances(target MessageStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to > from
}

// QuotedMessage is a denormalized snapshot of the message being replied to,
// captured at quote time. It is embedded on purpose: the quote must keep
// showing what the original said even after the original is edited or
// deleted.
type QuotedMessage struct {
	QuotedID         *uint  `gorm:"index" json:"quoted_id,omitempty"`
	QuotedContent    string `gorm:"type:text" json:"quoted_content,omitempty"`
	QuotedSenderName string `gorm:"size:100" json:"quoted_sender_name,omitempty"`
}

func (q QuotedMessage) IsZero() bool {
	return q.QuotedID == nil
}

type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Client-side tracking
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender" json:"client_id"` // UUID for deduplication

	ChatID   uint `gorm:"not null;index" json:"chat_id"`
	Chat     Chat `gorm:"foreignKey:ChatID" json:"-"`
	SenderID uint `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`

	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`

	Status MessageStatus `gorm:"type:varchar(20);default:'sent';index" json:"status"`

	QuotedMessage `gorm:"embedded"`

	IsEdited bool       `gorm:"default:false" json:"is_edited"`
	EditedAt *time.Time `json:"edited_at"`
}

type MessageResponse struct {
	ID          uint          `json:"id"`
	ClientID    string        `json:"client_id"`
	ChatID      uint          `json:"chat_id"`
	SenderID    uint          `json:"sender_id"`
	Sender      UserResponse  `json:"sender"`
	Content     string        `json:"content"`
	MessageType MessageType   `json:"message_type"`
	Status      MessageStatus `json:"status"`
	Quoted      QuotedMessage `json:"quoted"`
	IsEdited    bool          `json:"is_edited"`
	EditedAt    *time.Time    `json:"edited_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		Sender:      m.Sender.ToResponse(),
		Content:     m.Content,
		MessageType: m.MessageType,
		Status:      m.Status,
		Quoted:      m.QuotedMessage,
		IsEdited:    m.IsEdited,
		EditedAt:    m.EditedAt,
		CreatedAt:   m.CreatedAt,
	}
}
