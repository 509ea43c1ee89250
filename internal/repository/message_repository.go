package repository

import (
	"github.com/danny15002/doubleb/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	return &message, err
}

// FindChatMessages returns messages for a chat in chronological order,
// paginated backwards from cursor (0 means newest page).
func (r *MessageRepository) FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	query := r.db.Preload("Sender").Where("chat_id = ?", chatID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&messages).Error

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, err
}

func (r *MessageRepository) UpdateStatus(messageID uint, status models.MessageStatus) error {
	return r.db.Model(&models.Message{}).Where("id = ?", messageID).
		Update("status", status).Error
}

func (r *MessageRepository) UpdateContent(messageID uint, content string) error {
	return r.db.Model(&models.Message{}).Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
			"edited_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *MessageRepository) Delete(messageID uint) error {
	return r.db.Delete(&models.Message{}, messageID).Error
}

func (r *MessageRepository) DeleteByChat(chatID uint) error {
	return r.db.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error
}
