package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthProvider defines how the user authenticates
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

// User is the account record. Everything a user shows to other users lives
// in Profile, which is created as a whole when onboarding completes.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password     string         `json:"-" gorm:"size:255"` // NULL for Google OAuth users
	AuthProvider AuthProvider   `json:"auth_provider" gorm:"type:varchar(20);default:'email'"`
	GoogleID     *string        `json:"-" gorm:"uniqueIndex;size:255"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	AuthProvider AuthProvider `json:"auth_provider"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		AuthProvider: u.AuthProvider,
		CreatedAt:    u.CreatedAt,
	}
}
