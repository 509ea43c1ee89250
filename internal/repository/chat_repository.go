package repository

import (
	"github.com/danny15002/doubleb/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(chat *models.Chat) error {
	return r.db.Create(chat).Error
}

func (r *ChatRepository) FindByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Preload("Owner").First(&chat, id).Error
	return &chat, err
}

func (r *ChatRepository) Delete(id uint) error {
	return r.db.Delete(&models.Chat{}, id).Error
}

func (r *ChatRepository) AddMember(chatID, userID uint, role models.ChatRole) error {
	member := models.ChatMember{
		ChatID: chatID,
		UserID: userID,
		Role:   role,
	}
	return r.db.Create(&member).Error
}

func (r *ChatRepository) RemoveMember(chatID, userID uint) error {
	return r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&models.ChatMember{}).Error
}

func (r *ChatRepository) GetMembers(chatID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN chat_members ON chat_members.user_id = users.id").
		Where("chat_members.chat_id = ?", chatID).
		Find(&users).Error
	return users, err
}

func (r *ChatRepository) GetMemberIDs(chatID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ChatRepository) IsMember(chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepository) GetMemberRole(chatID, userID uint) (models.ChatRole, error) {
	var member models.ChatMember
	err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&member).Error
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *ChatRepository) GetUserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", userID).
		Find(&chats).Error
	return chats, err
}
