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

// MatchRepository handles database operations for matches
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts the match if it does not exist yet. The deterministic pair
// key makes concurrent double-creation converge on a single row: the second
// writer's insert is a no-op, not a duplicate.
func (r *MatchRepository) Create(ctx context.Context, match *model.Match) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(match).Error
}

// FindByID returns a match by its pair key
func (r *MatchRepository) FindByID(ctx context.Context, id string) (*model.Match, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var match model.Match
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Exists reports whether the two users have already matched
func (r *MatchRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ?", model.MatchKey(a, b)).
		Count(&count).Error
	return count > 0, err
}

// ForUser returns all matches the user is a member of, newest first
func (r *MatchRepository) ForUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var matches []model.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// ForUserSince returns the user's matches created after the given time
func (r *MatchRepository) ForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Match, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var matches []model.Match
	err := r.db.WithContext(ctx).
		Where("(user_a = ? OR user_b = ?) AND created_at > ?", userID, userID, since).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// UpdateLastMessage refreshes the cached last-message summary on the match
func (r *MatchRepository) UpdateLastMessage(ctx context.Context, matchID string, msg *model.Message) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"last_message_text":      msg.Text,
			"last_message_sender_id": msg.SenderID,
			"last_message_at":        msg.CreatedAt,
		}).Error
}

// IsNotFound reports whether the error is the record-not-found sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
