package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/feed"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
)

// recentMatchWindow is how far back "recent matches" looks
const recentMatchWindow = 24 * time.Hour

// ChatService handles messaging inside matches: persistence, read-state,
// live snapshots, and conversation summaries.
type ChatService struct {
	matches  MatchStore
	messages MessageStore
	profiles ProfileStore
	feed     *feed.Feed
	notifier Notifier
}

func NewChatService(matches MatchStore, messages MessageStore, profiles ProfileStore, msgFeed *feed.Feed, notifier Notifier) *ChatService {
	return &ChatService{
		matches:  matches,
		messages: messages,
		profiles: profiles,
		feed:     msgFeed,
		notifier: notifier,
	}
}

// SendMessage validates that sender and receiver are the match's two members,
// persists the message, refreshes the match's cached last-message summary,
// and wakes the live feed. On failure nothing is written, so the caller can
// retry with the same text.
func (s *ChatService) SendMessage(ctx context.Context, matchID string, senderID, receiverID uuid.UUID, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	match, err := s.findMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(senderID) || !match.Involves(receiverID) || senderID == receiverID {
		return nil, ErrNotMatchMember
	}

	msg := &model.Message{
		ID:         uuid.New(),
		MatchID:    matchID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Read:       false,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	// Cache miss here only degrades list views, never the send itself
	if err := s.matches.UpdateLastMessage(ctx, matchID, msg); err != nil {
		log.Printf("⚠️  Failed to update last-message cache for match %s: %v", matchID, err)
	}

	if s.feed != nil {
		s.feed.Notify(ctx, matchID)
	}

	if s.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.notifier.MessageSent(ctx, msg)
		}()
	}

	return msg, nil
}

// GetMessages returns all messages in a match, oldest first
func (s *ChatService) GetMessages(ctx context.Context, matchID string, userID uuid.UUID) ([]model.Message, error) {
	match, err := s.findMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, ErrNotMatchMember
	}
	return s.messages.ForMatch(ctx, matchID)
}

// SubscribeToMessages opens a live snapshot stream for a match. The caller
// receives the full ordered message list immediately and again on every
// change, and must Close the subscription when done.
func (s *ChatService) SubscribeToMessages(ctx context.Context, matchID string, userID uuid.UUID) (*feed.Subscription, error) {
	match, err := s.findMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, ErrNotMatchMember
	}
	return s.feed.Subscribe(ctx, matchID)
}

// MarkMessagesAsRead flips every unread message addressed to the reader in
// the match to read. Idempotent: a second call finds nothing to flip.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, matchID string, readerID uuid.UUID) error {
	match, err := s.findMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.Involves(readerID) {
		return ErrNotMatchMember
	}

	flipped, err := s.messages.MarkRead(ctx, matchID, readerID)
	if err != nil {
		return err
	}
	if flipped > 0 && s.feed != nil {
		s.feed.Notify(ctx, matchID)
	}
	return nil
}

// GetConversations builds the per-match summaries for the given matches:
// most recent message plus unread count for the requester, sorted by
// most-recent-message time descending. Matches with no messages sort last.
func (s *ChatService) GetConversations(ctx context.Context, userID uuid.UUID, matchIDs []string) ([]model.Conversation, error) {
	conversations := make([]model.Conversation, 0, len(matchIDs))

	for _, matchID := range matchIDs {
		last, err := s.messages.LastForMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messages.CountUnread(ctx, matchID, userID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, model.Conversation{
			MatchID:     matchID,
			LastMessage: last,
			UnreadCount: int(unread),
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversationTime(conversations[i]).After(conversationTime(conversations[j]))
	})

	return conversations, nil
}

// conversationTime is the sort key: a match with no messages counts as zero
func conversationTime(c model.Conversation) time.Time {
	if c.LastMessage == nil {
		return time.Time{}
	}
	return c.LastMessage.CreatedAt
}

// GetMatches returns all matches for the user, each with the other member's
// profile attached, newest match first.
func (s *ChatService) GetMatches(ctx context.Context, userID uuid.UUID) ([]model.MatchResponse, error) {
	matches, err := s.matches.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachProfiles(ctx, userID, matches)
}

// GetRecentMatches returns matches created within the last 24 hours
func (s *ChatService) GetRecentMatches(ctx context.Context, userID uuid.UUID) ([]model.MatchResponse, error) {
	matches, err := s.matches.ForUserSince(ctx, userID, time.Now().Add(-recentMatchWindow))
	if err != nil {
		return nil, err
	}
	return s.attachProfiles(ctx, userID, matches)
}

func (s *ChatService) attachProfiles(ctx context.Context, userID uuid.UUID, matches []model.Match) ([]model.MatchResponse, error) {
	result := make([]model.MatchResponse, 0, len(matches))
	for i := range matches {
		resp := model.MatchResponse{Match: matches[i]}

		other, err := s.profiles.Get(ctx, matches[i].OtherUser(userID))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		resp.OtherUser = other

		result = append(result, resp)
	}
	return result, nil
}

func (s *ChatService) findMatch(ctx context.Context, matchID string) (*model.Match, error) {
	match, err := s.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}
