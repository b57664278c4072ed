package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles database operations for dating profiles
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the profile for a user
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var profile model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save upserts the whole profile. Onboarding writes the profile in one shot,
// so a re-submit simply overwrites the previous record.
func (r *ProfileRepository) Save(ctx context.Context, profile *model.Profile) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

// Update applies partial column updates and bumps last_active_at
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	updates["last_active_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// Candidates returns complete profiles ordered by most recent activity,
// excluding the requesting user. The window is re-scanned on every call;
// there is no pagination cursor, so unswiped candidates may reappear.
func (r *ProfileRepository) Candidates(ctx context.Context, exclude uuid.UUID, limit int) ([]model.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Where("profile_complete = ? AND user_id != ?", true, exclude).
		Order("last_active_at DESC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

// TouchLastActive bumps the last_active_at timestamp
func (r *ProfileRepository) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("last_active_at", time.Now()).Error
}

// SetPushToken stores (or clears) the user's push notification token
func (r *ProfileRepository) SetPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Update("push_token", token).Error
}
