package repository

import (
	"github.com/danny15002/doubleb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert inserts the (message, user, emoji) triple or, on conflict,
// refreshes updated_at. Concurrent duplicate toggles collapse to one row.
func (r *ReactionRepository) Upsert(reaction *models.Reaction) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": gorm.Expr("NOW()")}),
	}).Create(reaction).Error
}

func (r *ReactionRepository) Find(messageID, userID uint, emoji string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&reaction).Error
	return &reaction, err
}

func (r *ReactionRepository) Delete(messageID, userID uint, emoji string) error {
	return r.db.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&models.Reaction{}).Error
}

// ListGrouped returns the per-emoji aggregation for a message. Rows are
// fetched in reaction order so the grouped user lists preserve it.
func (r *ReactionRepository) ListGrouped(messageID uint) ([]models.ReactionGroup, error) {
	var reactions []models.Reaction
	err := r.db.Preload("User").
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return models.GroupReactions(reactions), nil
}
