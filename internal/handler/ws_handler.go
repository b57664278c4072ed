package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
	"github.com/kindredapp/kindred/internal/ws"
	"github.com/kindredapp/kindred/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub         *ws.Hub
	chatService *service.ChatService
	jwtManager  *auth.JWTManager
}

func NewWSHandler(hub *ws.Hub, chatService *service.ChatService, jwtManager *auth.JWTManager) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		jwtManager:  jwtManager,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and manages the connection
// Client connects with: ws://host/ws?token=<jwt_token>
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// Authenticate via query parameter (WebSocket can't use Authorization header)
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register(client)

	log.Printf("✅ WS Connected: UserID=%s", claims.UserID)

	go client.WritePump()
	go client.ReadPump(h.handleWSMessage)
}

// handleWSMessage processes incoming WebSocket messages from clients
func (h *WSHandler) handleWSMessage(client *ws.Client, event model.WSEvent) {
	switch event.Type {
	case model.WSEventSubscribe:
		h.handleSubscribe(client, event)

	case model.WSEventUnsubscribe:
		h.handleUnsubscribe(client, event)

	case model.WSEventNewMessage:
		h.handleNewMessage(client, event)

	case model.WSEventMessageRead:
		h.handleMessageRead(client, event)

	default:
		log.Printf("Unknown WebSocket event type: %s", event.Type)
	}
}

// handleSubscribe opens a live snapshot stream on a match. The current
// snapshot is delivered immediately, then a fresh one after every change,
// until the client unsubscribes or disconnects.
func (h *WSHandler) handleSubscribe(client *ws.Client, event model.WSEvent) {
	matchID, ok := matchIDFromPayload(event)
	if !ok {
		return
	}

	sub, err := h.chatService.SubscribeToMessages(context.Background(), matchID, client.UserID)
	if err != nil {
		log.Printf("Error subscribing to match %s: %v", matchID, err)
		client.Send(&model.WSEvent{
			Type:    "error",
			Payload: model.ErrorResponse{Error: err.Error()},
		})
		return
	}

	client.TrackSubscription(matchID, sub)

	// Pump snapshots until the subscription is closed
	go func() {
		for messages := range sub.Messages() {
			client.Send(&model.WSEvent{
				Type: model.WSEventSnapshot,
				Payload: model.SnapshotEvent{
					MatchID:  matchID,
					Messages: messages,
				},
			})
		}
	}()
}

// handleUnsubscribe tears down the client's stream for a match
func (h *WSHandler) handleUnsubscribe(client *ws.Client, event model.WSEvent) {
	if matchID, ok := matchIDFromPayload(event); ok {
		client.DropSubscription(matchID)
	}
}

// handleNewMessage persists a chat message sent over the socket. Delivery to
// subscribers happens through the feed, not here.
func (h *WSHandler) handleNewMessage(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		MatchID    string    `json:"match_id"`
		ReceiverID uuid.UUID `json:"receiver_id"`
		Text       string    `json:"text"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		log.Printf("Error parsing new_message payload: %v", err)
		return
	}

	if _, err := h.chatService.SendMessage(context.Background(), payload.MatchID, client.UserID, payload.ReceiverID, payload.Text); err != nil {
		log.Printf("Error saving message: %v", err)
		client.Send(&model.WSEvent{
			Type:    "error",
			Payload: model.ErrorResponse{Error: err.Error()},
		})
	}
}

// handleMessageRead marks the client's unread messages in a match as read
func (h *WSHandler) handleMessageRead(client *ws.Client, event model.WSEvent) {
	matchID, ok := matchIDFromPayload(event)
	if !ok {
		return
	}

	if err := h.chatService.MarkMessagesAsRead(context.Background(), matchID, client.UserID); err != nil {
		log.Printf("Error marking messages read: %v", err)
	}
}

func matchIDFromPayload(event model.WSEvent) (string, bool) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.MatchID == "" {
		return "", false
	}
	return payload.MatchID, true
}
