package models

import (
	"time"

	"gorm.io/gorm"
)

// User carries profile fields only. Credentials and session issuance live
// in the auth collaborator; this service only ever sees an authenticated
// principal ID.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string     `gorm:"uniqueIndex;not null" json:"username"`
	FullName string     `json:"full_name"`
	Avatar   string     `json:"avatar"`
	IsOnline bool       `gorm:"default:false" json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`

	Messages []Message `gorm:"foreignKey:SenderID" json:"-"`
}

type UserResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	FullName string     `json:"full_name"`
	Avatar   string     `json:"avatar"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}

// DisplayName is what shows up in quote snapshots and push notifications.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
