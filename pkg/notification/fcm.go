package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/repository"
	"google.golang.org/api/option"
)

const messagePreviewLimit = 100

// Service sends FCM push notifications for matches and messages. Delivery is
// best-effort throughout: every failure is logged and none is propagated to
// the operation that triggered the push.
type Service struct {
	client      *messaging.Client
	profileRepo *repository.ProfileRepository
}

// New creates the FCM service. It returns nil (not an error) when Firebase
// is not configured, so push simply stays disabled.
func New(credentialsFile string, profileRepo *repository.ProfileRepository) *Service {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push notifications disabled")
		return nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push notifications disabled)", err)
		return nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return nil
	}

	log.Println("✅ Firebase FCM initialized")
	return &Service{
		client:      client,
		profileRepo: profileRepo,
	}
}

// MatchCreated notifies one member of a fresh match about the other
func (s *Service) MatchCreated(ctx context.Context, userID, otherUserID uuid.UUID, matchID string) {
	if s == nil || s.client == nil {
		return
	}

	recipient, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Match notification skipped, no profile for %s: %v", userID, err)
		return
	}
	if recipient.PushToken == "" {
		return
	}

	other, err := s.profileRepo.Get(ctx, otherUserID)
	if err != nil {
		log.Printf("⚠️ Match notification skipped, no profile for %s: %v", otherUserID, err)
		return
	}

	s.send(ctx, recipient.PushToken, "It's a Match!",
		fmt.Sprintf("You and %s liked each other!", other.Name),
		map[string]string{
			"type":     "match",
			"match_id": matchID,
			"user_id":  otherUserID.String(),
		})
}

// MessageSent notifies the receiver of a new chat message
func (s *Service) MessageSent(ctx context.Context, msg *model.Message) {
	if s == nil || s.client == nil {
		return
	}

	recipient, err := s.profileRepo.Get(ctx, msg.ReceiverID)
	if err != nil {
		log.Printf("⚠️ Message notification skipped, no profile for %s: %v", msg.ReceiverID, err)
		return
	}
	if recipient.PushToken == "" {
		return
	}

	sender, err := s.profileRepo.Get(ctx, msg.SenderID)
	if err != nil {
		log.Printf("⚠️ Message notification skipped, no profile for %s: %v", msg.SenderID, err)
		return
	}

	body := msg.Text
	if len(body) > messagePreviewLimit {
		body = body[:messagePreviewLimit] + "..."
	}

	s.send(ctx, recipient.PushToken, sender.Name, body, map[string]string{
		"type":      "message",
		"match_id":  msg.MatchID,
		"sender_id": msg.SenderID.String(),
	})
}

// send delivers a single push and logs any failure
func (s *Service) send(ctx context.Context, token, title, body string, data map[string]string) {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		log.Printf("⚠️ FCM delivery failed for token %s: %v", token, err)
	}
}
