package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
)

// In-memory store fakes backing the service tests. They mirror the GORM
// repositories' contracts, including not-found behavior.

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*model.Profile
}

func newFakeProfileStore(profiles ...*model.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[uuid.UUID]*model.Profile)}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *fakeProfileStore) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProfileStore) Candidates(ctx context.Context, exclude uuid.UUID, limit int) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Profile
	for _, p := range s.profiles {
		if p.UserID == exclude || !p.ProfileComplete {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type swipeKey struct {
	userID, targetID uuid.UUID
}

type fakeSwipeStore struct {
	mu     sync.Mutex
	swipes map[swipeKey]model.Swipe
}

func newFakeSwipeStore() *fakeSwipeStore {
	return &fakeSwipeStore{swipes: make(map[swipeKey]model.Swipe)}
}

func (s *fakeSwipeStore) Upsert(ctx context.Context, swipe *model.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipes[swipeKey{swipe.UserID, swipe.TargetID}] = *swipe
	return nil
}

func (s *fakeSwipeStore) Find(ctx context.Context, userID, targetID uuid.UUID) (*model.Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.swipes[swipeKey{userID, targetID}]
	if !ok {
		return nil, nil
	}
	cp := sw
	return &cp, nil
}

func (s *fakeSwipeStore) SwipedTargetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for k := range s.swipes {
		if k.userID == userID {
			ids = append(ids, k.targetID)
		}
	}
	return ids, nil
}

func (s *fakeSwipeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.swipes)
}

type fakeMatchStore struct {
	mu      sync.Mutex
	matches map[string]model.Match
}

func newFakeMatchStore(matches ...*model.Match) *fakeMatchStore {
	s := &fakeMatchStore{matches: make(map[string]model.Match)}
	for _, m := range matches {
		s.matches[m.ID] = *m
	}
	return s
}

func (s *fakeMatchStore) Create(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Idempotent on the pair key, like ON CONFLICT DO NOTHING
	if _, ok := s.matches[match.ID]; !ok {
		s.matches[match.ID] = *match
	}
	return nil
}

func (s *fakeMatchStore) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.matches[model.MatchKey(a, b)]
	return ok, nil
}

func (s *fakeMatchStore) FindByID(ctx context.Context, id string) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m
	return &cp, nil
}

func (s *fakeMatchStore) ForUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Match
	for _, m := range s.matches {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeMatchStore) ForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Match, error) {
	all, _ := s.ForUser(ctx, userID)
	var out []model.Match
	for _, m := range all {
		if m.CreatedAt.After(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) UpdateLastMessage(ctx context.Context, matchID string, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.LastMessageText = msg.Text
	m.LastMessageSenderID = &msg.SenderID
	at := msg.CreatedAt
	m.LastMessageAt = &at
	s.matches[matchID] = m
	return nil
}

func (s *fakeMatchStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []model.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) Create(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeMessageStore) ForMatch(ctx context.Context, matchID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeMessageStore) LastForMatch(ctx context.Context, matchID string) (*model.Message, error) {
	msgs, _ := s.ForMatch(ctx, matchID)
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (s *fakeMessageStore) CountUnread(ctx context.Context, matchID string, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.messages {
		if m.MatchID == matchID && m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (s *fakeMessageStore) MarkRead(ctx context.Context, matchID string, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var flipped int64
	for i := range s.messages {
		m := &s.messages[i]
		if m.MatchID == matchID && m.ReceiverID == userID && !m.Read {
			m.Read = true
			flipped++
		}
	}
	return flipped, nil
}

// fakeNotifier records dispatched notifications. Services fire them from
// goroutines, so tests wait on the channels instead of sleeping.
type fakeNotifier struct {
	matchEvents   chan string
	messageEvents chan uuid.UUID
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		matchEvents:   make(chan string, 8),
		messageEvents: make(chan uuid.UUID, 8),
	}
}

func (n *fakeNotifier) MatchCreated(ctx context.Context, userID, otherUserID uuid.UUID, matchID string) {
	n.matchEvents <- matchID
}

func (n *fakeNotifier) MessageSent(ctx context.Context, msg *model.Message) {
	n.messageEvents <- msg.ID
}

// completeProfile builds a discoverable profile with sane defaults that
// individual tests override as needed.
func completeProfile(gender model.Gender, age int, lookingFor model.LookingFor) *model.Profile {
	now := time.Now()
	dob := now.AddDate(-age, 0, -30)
	return &model.Profile{
		UserID:          uuid.New(),
		Name:            "Test User",
		DateOfBirth:     dob,
		Age:             age,
		Gender:          gender,
		LookingFor:      lookingFor,
		AgeMin:          18,
		AgeMax:          99,
		DistanceKm:      100,
		ProfileComplete: true,
		LastActiveAt:    now,
	}
}
