package models

import (
	"time"

	"gorm.io/gorm"
)

type ChatRole string

const (
	RoleOwner  ChatRole = "owner"
	RoleMember ChatRole = "member"
)

type Chat struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name    string `gorm:"size:100;not null" json:"name"`
	OwnerID uint   `gorm:"not null" json:"owner_id"`

	// Associations
	Owner   User         `gorm:"foreignKey:OwnerID" json:"owner"`
	Members []ChatMember `gorm:"foreignKey:ChatID" json:"members"`
}

type ChatMember struct {
	ChatID   uint      `gorm:"primaryKey" json:"chat_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	Role     ChatRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Chat Chat `gorm:"foreignKey:ChatID" json:"-"`
}
