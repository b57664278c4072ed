package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
)

// SwipeService records swipe decisions and detects mutual likes
type SwipeService struct {
	swipes   SwipeStore
	matches  MatchStore
	notifier Notifier
}

func NewSwipeService(swipes SwipeStore, matches MatchStore, notifier Notifier) *SwipeService {
	return &SwipeService{
		swipes:   swipes,
		matches:  matches,
		notifier: notifier,
	}
}

// RecordSwipe persists the decision and, for a like or superlike, checks the
// reverse direction. When both directions are likes it creates the match on
// the deterministic pair key; two sessions completing the same mutual like
// concurrently converge on the same row without any lock.
//
// Notification dispatch is fire-and-forget: a delivery failure never fails
// the swipe or the match write.
func (s *SwipeService) RecordSwipe(ctx context.Context, userID, targetID uuid.UUID, action model.SwipeAction) (*model.SwipeResult, error) {
	if !action.Valid() {
		return nil, ErrInvalidAction
	}
	if userID == targetID {
		return nil, ErrSelfSwipe
	}

	now := time.Now()
	swipe := &model.Swipe{
		UserID:    userID,
		TargetID:  targetID,
		Action:    action,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.swipes.Upsert(ctx, swipe); err != nil {
		return nil, err
	}

	// Passes never trigger match evaluation
	if !action.IsLike() {
		return &model.SwipeResult{Matched: false}, nil
	}

	reverse, err := s.swipes.Find(ctx, targetID, userID)
	if err != nil {
		return nil, err
	}
	if reverse == nil || !reverse.Action.IsLike() {
		return &model.SwipeResult{Matched: false}, nil
	}

	// A repeat mutual like re-detects an existing pair; skip the duplicate
	// create and, more importantly, the duplicate pushes
	alreadyMatched, err := s.matches.Exists(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if alreadyMatched {
		return &model.SwipeResult{Matched: true, MatchID: model.MatchKey(userID, targetID)}, nil
	}

	match := model.NewMatch(userID, targetID)
	match.CreatedAt = now
	if err := s.matches.Create(ctx, match); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.notifier.MatchCreated(ctx, userID, targetID, match.ID)
			s.notifier.MatchCreated(ctx, targetID, userID, match.ID)
		}()
	}

	return &model.SwipeResult{Matched: true, MatchID: match.ID}, nil
}
