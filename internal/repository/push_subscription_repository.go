package repository

import (
	"github.com/danny15002/doubleb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Upsert stores the subscription, refreshing key material when the client
// re-subscribes with the same endpoint after a key rotation.
func (r *PushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
}

func (r *PushSubscriptionRepository) ListForUser(userID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *PushSubscriptionRepository) DeleteByEndpoint(userID uint, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

// DeleteEndpoint removes a subscription regardless of owner. Used when the
// push provider answers with an authoritative gone/expired signal.
func (r *PushSubscriptionRepository) DeleteEndpoint(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).
		Delete(&models.PushSubscription{}).Error
}
