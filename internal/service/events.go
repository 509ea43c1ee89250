package service

import (
	"github.com/danny15002/doubleb/internal/models"
)

// Server→client event names. These form the closed outbound contract; the
// hub never invents event types outside this list.
const (
	EventMessageCreated       = "message-created"
	EventMessageEdited        = "message-edited"
	EventMessageDeleted       = "message-deleted"
	EventMessageStatusChanged = "message-status-changed"
	EventReactionsChanged     = "reactions-changed"
	EventUserTyping           = "user-typing"
	EventUserStoppedTyping    = "user-stopped-typing"
	EventChatDeleted          = "chat-deleted"
	EventNotificationDrain    = "notification-drain"
)

type StatusChangedPayload struct {
	MessageID uint                 `json:"message_id"`
	ChatID    uint                 `json:"chat_id"`
	Status    models.MessageStatus `json:"status"`
}

type MessageDeletedPayload struct {
	MessageID uint `json:"message_id"`
	ChatID    uint `json:"chat_id"`
}

type ReactionsChangedPayload struct {
	MessageID uint                   `json:"message_id"`
	ChatID    uint                   `json:"chat_id"`
	Reactions []models.ReactionGroup `json:"reactions"`
}

type TypingPayload struct {
	ChatID   uint   `json:"chat_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type ChatDeletedPayload struct {
	ChatID uint `json:"chat_id"`
}

// Broadcaster fans an event out to every connection joined to a chat room.
// Fire-and-forget: a disconnected socket simply misses the event.
type Broadcaster interface {
	BroadcastToChat(chatID uint, eventType string, payload interface{})
}

// Presence answers whether anyone besides the given user has a live
// connection joined to the room right now.
type Presence interface {
	HasOtherMember(chatID uint, excludeUserID uint) bool
}

// Notifier routes out-of-band notifications for recipients who are not
// reachable over a realtime connection.
type Notifier interface {
	NotifyNewMessage(chat *models.Chat, message *models.Message)
	NotifyChatEvent(chat *models.Chat, userIDs []uint, title, body string)
}
