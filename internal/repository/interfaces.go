package repository

import (
	"github.com/danny15002/doubleb/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	UpdateOnlineStatus(userID uint, isOnline bool) error
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error)
	UpdateStatus(messageID uint, status models.MessageStatus) error
	UpdateContent(messageID uint, content string) error
	Delete(messageID uint) error
	DeleteByChat(chatID uint) error
}

// ReactionRepositoryInterface defines the contract for reaction repository operations
type ReactionRepositoryInterface interface {
	Upsert(reaction *models.Reaction) error
	Find(messageID, userID uint, emoji string) (*models.Reaction, error)
	Delete(messageID, userID uint, emoji string) error
	ListGrouped(messageID uint) ([]models.ReactionGroup, error)
}

// ChatRepositoryInterface defines the contract for chat repository operations
type ChatRepositoryInterface interface {
	Create(chat *models.Chat) error
	FindByID(id uint) (*models.Chat, error)
	Delete(id uint) error
	AddMember(chatID, userID uint, role models.ChatRole) error
	RemoveMember(chatID, userID uint) error
	GetMembers(chatID uint) ([]models.User, error)
	GetMemberIDs(chatID uint) ([]uint, error)
	IsMember(chatID, userID uint) (bool, error)
	GetMemberRole(chatID, userID uint) (models.ChatRole, error)
	GetUserChats(userID uint) ([]models.Chat, error)
}

// PushSubscriptionRepositoryInterface defines the contract for push subscription operations
type PushSubscriptionRepositoryInterface interface {
	Upsert(sub *models.PushSubscription) error
	ListForUser(userID uint) ([]models.PushSubscription, error)
	DeleteByEndpoint(userID uint, endpoint string) error
	DeleteEndpoint(endpoint string) error
}
