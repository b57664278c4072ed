package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat message inside a match. Messages are never edited or
// deleted; the only mutation is flipping Read from false to true.
type Message struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID    string    `json:"match_id" gorm:"size:100;index;not null"`
	SenderID   uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	ReceiverID uuid.UUID `json:"receiver_id" gorm:"type:uuid;index;not null"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Read       bool      `json:"read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// Conversation is a derived per-match summary: the most recent message and
// how many messages addressed to the requesting user are still unread.
// It is recomputed on read, never stored.
type Conversation struct {
	MatchID     string   `json:"match_id"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}
