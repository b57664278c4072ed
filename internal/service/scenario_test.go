package service

import (
	"context"
	"testing"

	"github.com/kindredapp/kindred/internal/feed"
	"github.com/kindredapp/kindred/internal/model"
)

// Full-flow tests driving discovery, swipes and chat over shared stores, the
// way one app session exercises the whole backend.

func TestScenarioPassBlocksMatchDespiteMutualDiscovery(t *testing.T) {
	// A: male, open to everyone 18-30, radius 50km
	userA := completeProfile(model.GenderMale, 27, model.LookingForEveryone)
	userA.AgeMin, userA.AgeMax, userA.DistanceKm = 18, 30, 50
	userA.Latitude, userA.Longitude = 10.8231, 106.6297

	// B: 25, prefers male, radius 100km, ~10km away
	userB := completeProfile(model.GenderFemale, 25, model.LookingForMale)
	userB.DistanceKm = 100
	userB.Latitude, userB.Longitude = 10.8231, 106.72

	profiles := newFakeProfileStore(userA, userB)
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()

	discovery := NewDiscoveryService(profiles, swipes, testDiscoveryConfig)
	swiping := NewSwipeService(swipes, matches, nil)
	ctx := context.Background()

	// Each appears in the other's feed
	for _, requester := range []*model.Profile{userA, userB} {
		results, err := discovery.FetchProfiles(ctx, requester.UserID, 10)
		if err != nil {
			t.Fatalf("FetchProfiles for %s: %v", requester.Name, err)
		}
		if len(results) != 1 {
			t.Fatalf("expected the pair to discover each other, got %d results", len(results))
		}
	}

	// A passes; B's later like must not resurrect the pair
	if _, err := swiping.RecordSwipe(ctx, userA.UserID, userB.UserID, model.SwipeActionPass); err != nil {
		t.Fatalf("pass: %v", err)
	}
	result, err := swiping.RecordSwipe(ctx, userB.UserID, userA.UserID, model.SwipeActionLike)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if result.Matched || matches.count() != 0 {
		t.Fatal("a pass must block the match even after the other side likes")
	}
}

func TestScenarioMatchThenFirstMessage(t *testing.T) {
	userA := completeProfile(model.GenderMale, 27, model.LookingForEveryone)
	userB := completeProfile(model.GenderFemale, 25, model.LookingForEveryone)

	profiles := newFakeProfileStore(userA, userB)
	swipes := newFakeSwipeStore()
	matches := newFakeMatchStore()
	messages := newFakeMessageStore()

	swiping := NewSwipeService(swipes, matches, nil)
	chat := NewChatService(matches, messages, profiles, feed.New(nil, messages.ForMatch), nil)
	ctx := context.Background()

	// A likes B, then B likes A
	swiping.RecordSwipe(ctx, userA.UserID, userB.UserID, model.SwipeActionLike)
	result, err := swiping.RecordSwipe(ctx, userB.UserID, userA.UserID, model.SwipeActionLike)
	if err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if !result.Matched {
		t.Fatal("mutual like must match")
	}

	// A opens the chat and subscribes before anything is sent
	sub, err := chat.SubscribeToMessages(ctx, result.MatchID, userA.UserID)
	if err != nil {
		t.Fatalf("SubscribeToMessages: %v", err)
	}
	defer sub.Close()
	if got := waitForSnapshot(t, sub); len(got) != 0 {
		t.Fatalf("fresh match must start with an empty snapshot, got %d messages", len(got))
	}

	// B sends the first message; A's subscription sees it unread
	if _, err := chat.SendMessage(ctx, result.MatchID, userB.UserID, userA.UserID, "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	snapshot := waitForSnapshot(t, sub)
	if len(snapshot) != 1 || snapshot[0].Text != "hi" || snapshot[0].Read {
		t.Fatalf("expected the sole unread message, got %+v", snapshot)
	}

	// A reads it; the next snapshot shows the flipped flag
	if err := chat.MarkMessagesAsRead(ctx, result.MatchID, userA.UserID); err != nil {
		t.Fatalf("MarkMessagesAsRead: %v", err)
	}
	snapshot = waitForSnapshot(t, sub)
	if len(snapshot) != 1 || !snapshot[0].Read {
		t.Fatalf("expected the message marked read, got %+v", snapshot)
	}

	// And the conversation list reflects the activity
	conversations, err := chat.GetConversations(ctx, userA.UserID, []string{result.MatchID})
	if err != nil {
		t.Fatalf("GetConversations: %v", err)
	}
	if len(conversations) != 1 || conversations[0].UnreadCount != 0 || conversations[0].LastMessage == nil {
		t.Fatalf("unexpected conversation summary: %+v", conversations)
	}
}
