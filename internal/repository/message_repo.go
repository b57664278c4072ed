package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.db.WithContext(ctx).Create(msg).Error
}

// ForMatch returns every message in a match ordered by timestamp ascending
func (r *MessageRepository) ForMatch(ctx context.Context, matchID string) ([]model.Message, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	messages := []model.Message{}
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// LastForMatch returns the most recent message in a match, or nil when the
// match has no messages yet.
func (r *MessageRepository) LastForMatch(ctx context.Context, matchID string) (*model.Message, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var msg model.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		First(&msg).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in a match addressed to the user that are
// still unread.
func (r *MessageRepository) CountUnread(ctx context.Context, matchID string, userID uuid.UUID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("match_id = ? AND receiver_id = ? AND read = ?", matchID, userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips read=true on every unread message addressed to the user in
// the match. Running it again is a no-op; the flag only moves one way.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID string, userID uuid.UUID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("match_id = ? AND receiver_id = ? AND read = ?", matchID, userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
