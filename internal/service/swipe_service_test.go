package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
)

func TestRecordSwipeLikeWithoutReverseDoesNotMatch(t *testing.T) {
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	svc := NewSwipeService(swipes, matches, nil)

	userA, userB := uuid.New(), uuid.New()

	result, err := svc.RecordSwipe(context.Background(), userA, userB, model.SwipeActionLike)
	if err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if result.Matched {
		t.Error("one-directional like must not match")
	}
	if matches.count() != 0 {
		t.Errorf("expected no match rows, got %d", matches.count())
	}
}

func TestRecordSwipeMutualLikeCreatesMatch(t *testing.T) {
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	notifier := newFakeNotifier()
	svc := NewSwipeService(swipes, matches, notifier)

	userA, userB := uuid.New(), uuid.New()
	ctx := context.Background()

	if _, err := svc.RecordSwipe(ctx, userA, userB, model.SwipeActionLike); err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	result, err := svc.RecordSwipe(ctx, userB, userA, model.SwipeActionSuperlike)
	if err != nil {
		t.Fatalf("second swipe: %v", err)
	}

	if !result.Matched {
		t.Fatal("mutual like must match")
	}
	if result.MatchID != model.MatchKey(userA, userB) {
		t.Errorf("match ID %q does not equal the pair key %q", result.MatchID, model.MatchKey(userA, userB))
	}
	if matches.count() != 1 {
		t.Errorf("expected exactly one match row, got %d", matches.count())
	}

	// Both members get the push, regardless of who completed the pair
	for i := 0; i < 2; i++ {
		select {
		case matchID := <-notifier.matchEvents:
			if matchID != result.MatchID {
				t.Errorf("notification for wrong match: %s", matchID)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for match notification")
		}
	}
}

func TestRecordSwipeMatchKeyOrderIndependent(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	if model.MatchKey(userA, userB) != model.MatchKey(userB, userA) {
		t.Fatal("pair key must not depend on argument order")
	}

	// Completing the pair from either direction lands on the same row
	for _, first := range []uuid.UUID{userA, userB} {
		second := userB
		if first == userB {
			second = userA
		}

		swipes := newFakeSwipeStore()
		matches := newFakeMatchStore()
		svc := NewSwipeService(swipes, matches, nil)
		ctx := context.Background()

		svc.RecordSwipe(ctx, first, second, model.SwipeActionLike)
		result, err := svc.RecordSwipe(ctx, second, first, model.SwipeActionLike)
		if err != nil {
			t.Fatalf("RecordSwipe: %v", err)
		}
		if result.MatchID != model.MatchKey(userA, userB) {
			t.Errorf("unexpected match ID %q", result.MatchID)
		}
	}
}

func TestRecordSwipePassNeverMatches(t *testing.T) {
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	svc := NewSwipeService(swipes, matches, nil)

	userA, userB := uuid.New(), uuid.New()
	ctx := context.Background()

	// B already likes A; A passing must not create a match
	svc.RecordSwipe(ctx, userB, userA, model.SwipeActionLike)
	result, err := svc.RecordSwipe(ctx, userA, userB, model.SwipeActionPass)
	if err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if result.Matched || matches.count() != 0 {
		t.Error("pass must never create a match")
	}
}

func TestRecordSwipeOverwritesPreviousDecision(t *testing.T) {
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	svc := NewSwipeService(swipes, matches, nil)

	userA, userB := uuid.New(), uuid.New()
	ctx := context.Background()

	svc.RecordSwipe(ctx, userA, userB, model.SwipeActionPass)
	svc.RecordSwipe(ctx, userA, userB, model.SwipeActionLike)

	if swipes.count() != 1 {
		t.Fatalf("expected a single swipe row per pair, got %d", swipes.count())
	}
	stored, _ := swipes.Find(ctx, userA, userB)
	if stored.Action != model.SwipeActionLike {
		t.Errorf("expected the later decision to win, got %s", stored.Action)
	}

	// The overwritten like now completes a mutual pair
	result, err := svc.RecordSwipe(ctx, userB, userA, model.SwipeActionLike)
	if err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if !result.Matched {
		t.Error("pass overwritten by like must count towards a match")
	}
}

func TestRecordSwipeMutualLikeIsIdempotent(t *testing.T) {
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	svc := NewSwipeService(swipes, matches, nil)

	userA, userB := uuid.New(), uuid.New()
	ctx := context.Background()

	svc.RecordSwipe(ctx, userA, userB, model.SwipeActionLike)
	svc.RecordSwipe(ctx, userB, userA, model.SwipeActionLike)
	// Repeating the like re-detects the pair but must not duplicate the match
	result, err := svc.RecordSwipe(ctx, userB, userA, model.SwipeActionLike)
	if err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if !result.Matched {
		t.Error("repeat mutual like should still report the match")
	}
	if matches.count() != 1 {
		t.Errorf("expected one match row, got %d", matches.count())
	}
}

func TestRecordSwipeValidation(t *testing.T) {
	svc := NewSwipeService(newFakeSwipeStore(), newFakeMatchStore(), nil)
	ctx := context.Background()
	userA, userB := uuid.New(), uuid.New()

	if _, err := svc.RecordSwipe(ctx, userA, userA, model.SwipeActionLike); !errors.Is(err, ErrSelfSwipe) {
		t.Errorf("expected ErrSelfSwipe, got %v", err)
	}
	if _, err := svc.RecordSwipe(ctx, userA, userB, model.SwipeAction("wink")); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}
