package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwipeRepository handles database operations for swipe decisions
type SwipeRepository struct {
	db *gorm.DB
}

func NewSwipeRepository(db *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Upsert records a swipe decision. The composite (user_id, target_id) key
// means a repeat swipe overwrites the previous action and timestamp instead
// of creating a second row.
func (r *SwipeRepository) Upsert(ctx context.Context, swipe *model.Swipe) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "target_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"action":     swipe.Action,
			"updated_at": time.Now(),
		}),
	}).Create(swipe).Error
}

// Find returns the swipe for an ordered (user, target) pair, or nil when the
// user has not swiped on the target.
func (r *SwipeRepository) Find(ctx context.Context, userID, targetID uuid.UUID) (*model.Swipe, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var swipe model.Swipe
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		First(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// SwipedTargetIDs returns every target the user has already swiped on,
// regardless of action. Discovery uses this as its exclusion set.
func (r *SwipeRepository) SwipedTargetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var targetIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Swipe{}).
		Where("user_id = ?", userID).
		Pluck("target_id", &targetIDs).Error
	return targetIDs, err
}
