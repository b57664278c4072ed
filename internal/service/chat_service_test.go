package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/feed"
	"github.com/kindredapp/kindred/internal/model"
)

// chatFixture wires a ChatService over in-memory stores with one existing
// match between userA and userB.
type chatFixture struct {
	svc      *ChatService
	matches  *fakeMatchStore
	messages *fakeMessageStore
	profiles *fakeProfileStore
	match    *model.Match
	userA    uuid.UUID
	userB    uuid.UUID
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	userA, userB := uuid.New(), uuid.New()
	match := model.NewMatch(userA, userB)
	match.CreatedAt = time.Now()

	matches := newFakeMatchStore(match)
	messages := newFakeMessageStore()
	profiles := newFakeProfileStore()
	msgFeed := feed.New(nil, messages.ForMatch)

	return &chatFixture{
		svc:      NewChatService(matches, messages, profiles, msgFeed, nil),
		matches:  matches,
		messages: messages,
		profiles: profiles,
		match:    match,
		userA:    userA,
		userB:    userB,
	}
}

func (f *chatFixture) send(t *testing.T, from, to uuid.UUID, text string) *model.Message {
	t.Helper()
	msg, err := f.svc.SendMessage(context.Background(), f.match.ID, from, to, text)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	return msg
}

func TestSendMessagePersistsAndCachesLastMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	msg := f.send(t, f.userA, f.userB, "hello there")
	if msg.Read {
		t.Error("new messages must start unread")
	}

	stored, err := f.svc.GetMessages(ctx, f.match.ID, f.userB)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(stored) != 1 || stored[0].Text != "hello there" {
		t.Fatalf("unexpected stored messages: %+v", stored)
	}

	cached, _ := f.matches.FindByID(ctx, f.match.ID)
	if cached.LastMessageText != "hello there" {
		t.Errorf("last-message cache not updated: %q", cached.LastMessageText)
	}
	if cached.LastMessageSenderID == nil || *cached.LastMessageSenderID != f.userA {
		t.Error("last-message sender not cached")
	}
}

func TestSendMessageValidation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	stranger := uuid.New()

	cases := []struct {
		name     string
		matchID  string
		from, to uuid.UUID
		text     string
		want     error
	}{
		{"empty text", f.match.ID, f.userA, f.userB, "   ", ErrEmptyMessage},
		{"unknown match", "nope", f.userA, f.userB, "hi", ErrMatchNotFound},
		{"sender not a member", f.match.ID, stranger, f.userB, "hi", ErrNotMatchMember},
		{"receiver not a member", f.match.ID, f.userA, stranger, "hi", ErrNotMatchMember},
		{"sender equals receiver", f.match.ID, f.userA, f.userA, "hi", ErrNotMatchMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.SendMessage(ctx, tc.matchID, tc.from, tc.to, tc.text); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}

	if msgs, _ := f.messages.ForMatch(ctx, f.match.ID); len(msgs) != 0 {
		t.Errorf("rejected sends must not persist anything, found %d messages", len(msgs))
	}
}

func TestGetMessagesRequiresMembership(t *testing.T) {
	f := newChatFixture(t)
	if _, err := f.svc.GetMessages(context.Background(), f.match.ID, uuid.New()); !errors.Is(err, ErrNotMatchMember) {
		t.Errorf("expected ErrNotMatchMember, got %v", err)
	}
}

func TestMarkMessagesAsReadIsScopedAndIdempotent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.send(t, f.userA, f.userB, "one")
	f.send(t, f.userA, f.userB, "two")
	f.send(t, f.userB, f.userA, "reply")

	if err := f.svc.MarkMessagesAsRead(ctx, f.match.ID, f.userB); err != nil {
		t.Fatalf("MarkMessagesAsRead: %v", err)
	}

	// B's inbox is clear, A's reply stays unread
	if n, _ := f.messages.CountUnread(ctx, f.match.ID, f.userB); n != 0 {
		t.Errorf("expected 0 unread for reader, got %d", n)
	}
	if n, _ := f.messages.CountUnread(ctx, f.match.ID, f.userA); n != 1 {
		t.Errorf("other member's unread count must be untouched, got %d", n)
	}

	// Second call finds nothing to flip
	if err := f.svc.MarkMessagesAsRead(ctx, f.match.ID, f.userB); err != nil {
		t.Fatalf("repeat MarkMessagesAsRead: %v", err)
	}
}

func TestGetConversationsSortedByActivity(t *testing.T) {
	userA := uuid.New()
	partners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	m1 := model.NewMatch(userA, partners[0])
	m2 := model.NewMatch(userA, partners[1])
	m3 := model.NewMatch(userA, partners[2]) // never messaged

	matches := newFakeMatchStore(m1, m2, m3)
	messages := newFakeMessageStore()
	svc := NewChatService(matches, messages, newFakeProfileStore(), feed.New(nil, messages.ForMatch), nil)
	ctx := context.Background()

	now := time.Now()
	messages.Create(ctx, &model.Message{ID: uuid.New(), MatchID: m1.ID, SenderID: partners[0], ReceiverID: userA, Text: "older", CreatedAt: now.Add(-time.Hour)})
	messages.Create(ctx, &model.Message{ID: uuid.New(), MatchID: m2.ID, SenderID: partners[1], ReceiverID: userA, Text: "newest", CreatedAt: now})
	messages.Create(ctx, &model.Message{ID: uuid.New(), MatchID: m2.ID, SenderID: userA, ReceiverID: partners[1], Text: "read one", CreatedAt: now.Add(-2 * time.Hour)})

	conversations, err := svc.GetConversations(ctx, userA, []string{m1.ID, m2.ID, m3.ID})
	if err != nil {
		t.Fatalf("GetConversations: %v", err)
	}
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(conversations))
	}

	wantOrder := []string{m2.ID, m1.ID, m3.ID}
	for i, want := range wantOrder {
		if conversations[i].MatchID != want {
			t.Fatalf("position %d: got %s, want %s", i, conversations[i].MatchID, want)
		}
	}

	if conversations[0].LastMessage == nil || conversations[0].LastMessage.Text != "newest" {
		t.Error("conversation must carry the most recent message")
	}
	if conversations[0].UnreadCount != 1 {
		t.Errorf("expected 1 unread addressed to the requester, got %d", conversations[0].UnreadCount)
	}
	if conversations[2].LastMessage != nil || conversations[2].UnreadCount != 0 {
		t.Error("match without messages must report an empty summary")
	}
}

func TestSubscribeDeliversSnapshotsUntilClosed(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.send(t, f.userA, f.userB, "first")

	sub, err := f.svc.SubscribeToMessages(ctx, f.match.ID, f.userB)
	if err != nil {
		t.Fatalf("SubscribeToMessages: %v", err)
	}
	defer sub.Close()

	// Initial snapshot arrives without any new write
	snapshot := waitForSnapshot(t, sub)
	if len(snapshot) != 1 || snapshot[0].Text != "first" {
		t.Fatalf("unexpected initial snapshot: %+v", snapshot)
	}

	// Each change re-delivers the whole ordered list
	f.send(t, f.userB, f.userA, "second")
	snapshot = waitForSnapshot(t, sub)
	if len(snapshot) != 2 || snapshot[0].Text != "first" || snapshot[1].Text != "second" {
		t.Fatalf("unexpected snapshot after send: %+v", snapshot)
	}

	// Read-state changes count as changes too
	if err := f.svc.MarkMessagesAsRead(ctx, f.match.ID, f.userA); err != nil {
		t.Fatalf("MarkMessagesAsRead: %v", err)
	}
	snapshot = waitForSnapshot(t, sub)
	if !snapshot[1].Read {
		t.Error("snapshot after mark-read must show the flipped flag")
	}

	sub.Close()
	f.send(t, f.userA, f.userB, "after close")
	if _, ok := <-sub.Messages(); ok {
		t.Error("no snapshots may be delivered after Close")
	}
}

func TestSubscribeRequiresMembership(t *testing.T) {
	f := newChatFixture(t)
	if _, err := f.svc.SubscribeToMessages(context.Background(), f.match.ID, uuid.New()); !errors.Is(err, ErrNotMatchMember) {
		t.Errorf("expected ErrNotMatchMember, got %v", err)
	}
}

func TestGetRecentMatchesWindow(t *testing.T) {
	userA := uuid.New()
	fresh := model.NewMatch(userA, uuid.New())
	fresh.CreatedAt = time.Now().Add(-time.Hour)
	stale := model.NewMatch(userA, uuid.New())
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	matches := newFakeMatchStore(fresh, stale)
	messages := newFakeMessageStore()
	svc := NewChatService(matches, messages, newFakeProfileStore(), feed.New(nil, messages.ForMatch), nil)
	ctx := context.Background()

	recent, err := svc.GetRecentMatches(ctx, userA)
	if err != nil {
		t.Fatalf("GetRecentMatches: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh match, got %d results", len(recent))
	}

	all, err := svc.GetMatches(ctx, userA)
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both matches, got %d", len(all))
	}
	if all[0].ID != fresh.ID {
		t.Error("matches must come back newest first")
	}
}

func TestGetMatchesAttachesOtherProfile(t *testing.T) {
	other := completeProfile(model.GenderFemale, 27, model.LookingForEveryone)
	userA := uuid.New()
	match := model.NewMatch(userA, other.UserID)
	match.CreatedAt = time.Now()

	matches := newFakeMatchStore(match)
	messages := newFakeMessageStore()
	svc := NewChatService(matches, messages, newFakeProfileStore(other), feed.New(nil, messages.ForMatch), nil)

	result, err := svc.GetMatches(context.Background(), userA)
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result))
	}
	if result[0].OtherUser == nil || result[0].OtherUser.UserID != other.UserID {
		t.Error("expected the other member's profile attached")
	}
}

func waitForSnapshot(t *testing.T, sub *feed.Subscription) []model.Message {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Messages():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
