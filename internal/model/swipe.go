package model

import (
	"time"

	"github.com/google/uuid"
)

// SwipeAction is a user's decision about a candidate profile
type SwipeAction string

const (
	SwipeActionLike      SwipeAction = "like"
	SwipeActionPass      SwipeAction = "pass"
	SwipeActionSuperlike SwipeAction = "superlike"
)

// IsLike reports whether the action counts towards a mutual like.
func (a SwipeAction) IsLike() bool {
	return a == SwipeActionLike || a == SwipeActionSuperlike
}

// Valid reports whether the action is one of the known swipe actions.
func (a SwipeAction) Valid() bool {
	return a == SwipeActionLike || a == SwipeActionPass || a == SwipeActionSuperlike
}

// Swipe is one decision by UserID about TargetID. The composite primary key
// guarantees a single row per ordered pair: a repeat swipe overwrites the
// action and timestamp rather than appending a second record.
type Swipe struct {
	UserID    uuid.UUID   `json:"user_id" gorm:"type:uuid;primaryKey"`
	TargetID  uuid.UUID   `json:"target_id" gorm:"type:uuid;primaryKey;index:idx_swipes_target"`
	Action    SwipeAction `json:"action" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
