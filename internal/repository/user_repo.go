package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User accounts
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateGoogleUser finds a user by email or creates a new Google-backed account
func (r *UserRepository) GetOrCreateGoogleUser(ctx context.Context, googleID, email string) (*model.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err == nil {
		if user.GoogleID == nil {
			id := googleID
			updates := map[string]interface{}{
				"google_id":     &id,
				"auth_provider": model.AuthProviderGoogle,
			}
			if err := r.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}

	id := googleID
	user = model.User{
		Email:        email,
		GoogleID:     &id,
		AuthProvider: model.AuthProviderGoogle,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
