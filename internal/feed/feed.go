package feed

import (
	"context"
	"log"
	"sync"

	"github.com/kindredapp/kindred/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "kindred:feed"

// Loader fetches the full ordered message list for a match
type Loader func(ctx context.Context, matchID string) ([]model.Message, error)

// Feed delivers full message-list snapshots to subscribers whenever a match's
// message set changes. Subscribers get the entire ordered list on every
// change, not a delta. Redis Pub/Sub carries change notifications across
// instances so a subscriber on one node sees writes made on another; with a
// nil Redis client the feed degrades to single-instance in-process delivery.
type Feed struct {
	rdb  *redis.Client
	load Loader

	mu   sync.Mutex
	subs map[string]map[*Subscription]bool
}

// New creates a Feed. rdb may be nil for single-instance deployments.
func New(rdb *redis.Client, load Loader) *Feed {
	return &Feed{
		rdb:  rdb,
		load: load,
		subs: make(map[string]map[*Subscription]bool),
	}
}

// Subscription is a live handle on one match's message stream. Close it to
// release all resources; nothing is delivered after Close returns.
type Subscription struct {
	feed    *Feed
	matchID string
	ch      chan []model.Message
	once    sync.Once
}

// Messages is the snapshot stream. The channel is closed by Close.
func (s *Subscription) Messages() <-chan []model.Message {
	return s.ch
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		f := s.feed
		f.mu.Lock()
		defer f.mu.Unlock()

		if subs, ok := f.subs[s.matchID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(f.subs, s.matchID)
			}
		}
		close(s.ch)
	})
}

// Subscribe registers a subscriber for a match and delivers the current
// snapshot immediately.
func (f *Feed) Subscribe(ctx context.Context, matchID string) (*Subscription, error) {
	messages, err := f.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		feed:    f,
		matchID: matchID,
		ch:      make(chan []model.Message, 8),
	}

	f.mu.Lock()
	if f.subs[matchID] == nil {
		f.subs[matchID] = make(map[*Subscription]bool)
	}
	f.subs[matchID][sub] = true
	sub.ch <- messages
	f.mu.Unlock()

	return sub, nil
}

// Notify signals that the match's message set changed. With Redis configured
// the change is published so every instance re-delivers; otherwise local
// subscribers are served directly.
func (f *Feed) Notify(ctx context.Context, matchID string) {
	if f.rdb != nil {
		if err := f.rdb.Publish(ctx, redisChannel, matchID).Err(); err != nil {
			log.Printf("⚠️  Feed publish failed, falling back to local delivery: %v", err)
			f.dispatch(ctx, matchID)
		}
		return
	}
	f.dispatch(ctx, matchID)
}

// Run consumes Redis change notifications until the context is canceled.
// It is a no-op without a Redis client.
func (f *Feed) Run(ctx context.Context) {
	if f.rdb == nil {
		return
	}

	pubsub := f.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Feed subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.dispatch(ctx, msg.Payload)
		}
	}
}

// dispatch reloads the match's messages and fans the snapshot out to every
// local subscriber. Slow subscribers lose intermediate snapshots, never the
// latest one.
func (f *Feed) dispatch(ctx context.Context, matchID string) {
	f.mu.Lock()
	hasSubs := len(f.subs[matchID]) > 0
	f.mu.Unlock()
	if !hasSubs {
		return
	}

	messages, err := f.load(ctx, matchID)
	if err != nil {
		log.Printf("⚠️  Feed reload failed for match %s: %v", matchID, err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs[matchID] {
		select {
		case sub.ch <- messages:
		default:
			// Buffer full: drop the oldest queued snapshot and retry
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- messages:
			default:
			}
		}
	}
}
