package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MatchKey builds the deterministic identifier for a pair of users: the two
// ids sorted lexicographically and joined with an underscore. Both orderings
// of the same pair map to the same key, which makes match creation an
// idempotent upsert instead of a race.
func MatchKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	if ids[1] < ids[0] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return strings.Join(ids, "_")
}

// Match is a confirmed mutual like between two users. UserA sorts before
// UserB so the row mirrors the key. The last-message columns are a cache
// maintained by the messaging layer for list views.
type Match struct {
	ID        string    `json:"id" gorm:"primaryKey;size:100"`
	UserA     uuid.UUID `json:"user_a" gorm:"type:uuid;not null;index"`
	UserB     uuid.UUID `json:"user_b" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at"`

	LastMessageText     string     `json:"last_message_text,omitempty" gorm:"type:text"`
	LastMessageSenderID *uuid.UUID `json:"last_message_sender_id,omitempty" gorm:"type:uuid"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
}

// NewMatch builds a Match for the given pair with users in canonical order.
func NewMatch(a, b uuid.UUID) *Match {
	if b.String() < a.String() {
		a, b = b, a
	}
	return &Match{
		ID:    MatchKey(a, b),
		UserA: a,
		UserB: b,
	}
}

// Involves reports whether the given user is one of the match's two members.
func (m *Match) Involves(userID uuid.UUID) bool {
	return m.UserA == userID || m.UserB == userID
}

// OtherUser returns the member that is not the given user.
func (m *Match) OtherUser(userID uuid.UUID) uuid.UUID {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}
