package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "kindred:events"

// Hub manages WebSocket connections and per-user event delivery.
// Redis Pub/Sub carries targeted events across instances so a match created
// on one node reaches a user connected to another.
type Hub struct {
	// userID -> set of connections (one user can have multiple devices)
	clients map[uuid.UUID]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	rdb *redis.Client

	// Callback when a user's first connection opens or last one closes
	onStatusChange func(userID uuid.UUID, online bool)
}

// NewHub creates a new WebSocket Hub
func NewHub(rdb *redis.Client, onStatusChange func(userID uuid.UUID, online bool)) *Hub {
	return &Hub{
		clients:        make(map[uuid.UUID]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rdb:            rdb,
		onStatusChange: onStatusChange,
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
		if h.onStatusChange != nil {
			go h.onStatusChange(client.UserID, true)
		}
	}
	h.clients[client.UserID][client] = true
	log.Printf("✅ Client connected: %s (connections: %d)", client.UserID, len(h.clients[client.UserID]))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.UserID]; ok {
		if !clients[client] {
			return
		}
		delete(clients, client)
		close(client.send)
		client.closeSubscriptions()

		if len(clients) == 0 {
			delete(h.clients, client.UserID)
			if h.onStatusChange != nil {
				go h.onStatusChange(client.UserID, false)
			}
		}
	}
	log.Printf("❌ Client disconnected: %s", client.UserID)
}

// SendToUser delivers an event to all of a user's connections, on every
// instance.
func (h *Hub) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	if h.rdb == nil {
		h.sendToLocalUser(userID, event)
		return
	}
	h.publishToRedis(&TargetedEvent{
		TargetUserID: userID,
		Event:        event,
	})
}

// sendToLocalUser sends an event to a user's connections on this instance
func (h *Hub) sendToLocalUser(userID uuid.UUID, event *model.WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Send buffer full, drop the connection
			close(client.send)
			client.closeSubscriptions()
			delete(clients, client)
		}
	}
}

// ========== Redis Pub/Sub ==========

// TargetedEvent wraps an event with a target user ID for Redis Pub/Sub
type TargetedEvent struct {
	TargetUserID uuid.UUID      `json:"target_user_id"`
	Event        *model.WSEvent `json:"event"`
}

func (h *Hub) publishToRedis(event *TargetedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling for Redis: %v", err)
		return
	}
	if err := h.rdb.Publish(context.Background(), redisChannel, data).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

func (h *Hub) subscribeRedis(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var targeted TargetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &targeted); err != nil {
				log.Printf("Error unmarshaling Redis message: %v", err)
				continue
			}
			if targeted.TargetUserID != uuid.Nil && targeted.Event != nil {
				h.sendToLocalUser(targeted.TargetUserID, targeted.Event)
			}
		}
	}
}
