package models

import (
	"time"

	"gorm.io/gorm"
)

// PushSubscription is a provider-issued Web Push endpoint plus key material
// for one client installation. (user_id, endpoint) is unique; a client
// re-subscribing with rotated keys updates the existing row.
type PushSubscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_endpoint" json:"user_id"`
	Endpoint string `gorm:"type:text;not null;uniqueIndex:idx_user_endpoint,length:255" json:"endpoint"`
	P256DH   string `gorm:"not null" json:"-"`
	Auth     string `gorm:"not null" json:"-"`
}
