package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
)

// Store interfaces consumed by the core services. The GORM repositories in
// internal/repository satisfy them; tests use in-memory fakes.

// ProfileStore is the read side of the durable profile record
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Candidates(ctx context.Context, exclude uuid.UUID, limit int) ([]model.Profile, error)
}

// SwipeStore is the keyed-overwrite ledger of swipe decisions
type SwipeStore interface {
	Upsert(ctx context.Context, swipe *model.Swipe) error
	Find(ctx context.Context, userID, targetID uuid.UUID) (*model.Swipe, error)
	SwipedTargetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// MatchStore is the canonical record of mutual-like pairs
type MatchStore interface {
	Create(ctx context.Context, match *model.Match) error
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ForUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error)
	ForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Match, error)
	UpdateLastMessage(ctx context.Context, matchID string, msg *model.Message) error
}

// MessageStore persists chat messages scoped to a match
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	ForMatch(ctx context.Context, matchID string) ([]model.Message, error)
	LastForMatch(ctx context.Context, matchID string) (*model.Message, error)
	CountUnread(ctx context.Context, matchID string, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, matchID string, userID uuid.UUID) (int64, error)
}

// Notifier dispatches push notifications. Delivery is best-effort: the
// implementation logs failures and never returns them to the triggering
// operation.
type Notifier interface {
	MatchCreated(ctx context.Context, userID, otherUserID uuid.UUID, matchID string)
	MessageSent(ctx context.Context, msg *model.Message)
}
