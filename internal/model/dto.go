package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"` // Google ID token from the app
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ========== Profile DTOs ==========

// SaveProfileRequest carries the whole onboarding payload. The profile is
// written in one shot; partial profiles are not modeled.
type SaveProfileRequest struct {
	Name        string    `json:"name" binding:"required,min=2,max=100"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Gender      Gender    `json:"gender" binding:"required,oneof=male female other"`
	Bio         string    `json:"bio" binding:"max=500"`
	Photos      []string  `json:"photos"`
	City        string    `json:"city" binding:"max=100"`
	Latitude    float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" binding:"min=-180,max=180"`
	Interests   []string  `json:"interests"`
	Height      *int      `json:"height"`
	Education   *string   `json:"education"`
	Occupation  *string   `json:"occupation"`

	LookingFor LookingFor `json:"looking_for" binding:"required,oneof=male female everyone"`
	AgeMin     int        `json:"age_min" binding:"required,min=18"`
	AgeMax     int        `json:"age_max" binding:"required,max=120"`
	DistanceKm float64    `json:"distance_km" binding:"required,gt=0"`
}

type UpdateBasicInfoRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Bio  string `json:"bio" binding:"max=500"`
}

type UpdatePreferencesRequest struct {
	LookingFor LookingFor `json:"looking_for" binding:"omitempty,oneof=male female everyone"`
	AgeMin     *int       `json:"age_min" binding:"omitempty,min=18"`
	AgeMax     *int       `json:"age_max" binding:"omitempty,max=120"`
	DistanceKm *float64   `json:"distance_km" binding:"omitempty,gt=0"`
}

type RegisterPushTokenRequest struct {
	PushToken string `json:"push_token" binding:"required"`
}

// ========== Discovery DTOs ==========

// DiscoveredProfile is a candidate annotated with the computed distance to
// the requesting user.
type DiscoveredProfile struct {
	Profile
	DistanceKm float64 `json:"distance_km"`
}

// ========== Swipe DTOs ==========

type SwipeRequest struct {
	TargetID uuid.UUID   `json:"target_id" binding:"required"`
	Action   SwipeAction `json:"action" binding:"required,oneof=like pass superlike"`
}

// SwipeResult reports whether the swipe completed a mutual like.
type SwipeResult struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

// ========== Chat DTOs ==========

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Text       string    `json:"text" binding:"required"`
}

// MatchResponse is a match together with the other member's profile.
type MatchResponse struct {
	Match
	OtherUser *Profile `json:"other_user,omitempty"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types
const (
	WSEventSubscribe   = "subscribe"
	WSEventUnsubscribe = "unsubscribe"
	WSEventSnapshot    = "message_snapshot"
	WSEventNewMessage  = "new_message"
	WSEventMessageRead = "message_read"
	WSEventMatch       = "match"
)

// SnapshotEvent carries the full ordered message list for a match. A snapshot
// replaces whatever the client held before; it is not a delta.
type SnapshotEvent struct {
	MatchID  string    `json:"match_id"`
	Messages []Message `json:"messages"`
}

// MatchEvent announces a freshly created match to both members.
type MatchEvent struct {
	MatchID   string    `json:"match_id"`
	OtherUser uuid.UUID `json:"other_user"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
