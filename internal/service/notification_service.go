package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/websocket"
	"ai-writing-be/pkg/events"
	pkgNats "ai-writing-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how real-time pushes reach connected clients.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(sessionID uuid.UUID, push websocket.Push)
	Broadcast(push websocket.Push)
}

// NotificationService relays generation lifecycle events from the event bus
// to the websocket clients of the session they belong to. Pushes are
// ephemeral: nothing is persisted, a client that is offline simply misses
// the push and re-syncs over REST.
type NotificationService struct {
	subscriber *pkgNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pkgNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event bus configured, realtime pushes disabled", nil)
		return
	}
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	if s.delivery == nil {
		return nil
	}

	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	push := websocket.Push{
		Type:      typeCode,
		Title:     titleFor(typeCode),
		Message:   messageFor(typeCode, payload),
		Data:      payload,
		CreatedAt: time.Now(),
	}

	if sidStr, ok := payload["session_uuid"].(string); ok {
		if sid, err := uuid.Parse(sidStr); err == nil {
			s.delivery.Send(sid, push)
			return nil
		}
	}

	// Events without a session target (system-wide announcements) go to
	// everyone connected.
	s.delivery.Broadcast(push)
	return nil
}

func titleFor(typeCode string) string {
	switch typeCode {
	case "GENERATION_STARTED":
		return "Generation started"
	case "CHAPTER_COMPLETED":
		return "Chapter ready"
	case "GENERATION_COMPLETED":
		return "Article complete"
	case "GENERATION_FAILED":
		return "Generation failed"
	case "RECORD_CREATED":
		return "New draft"
	default:
		return typeCode
	}
}

func messageFor(typeCode string, payload map[string]interface{}) string {
	switch typeCode {
	case "CHAPTER_COMPLETED":
		if title, ok := payload["title"].(string); ok && title != "" {
			return fmt.Sprintf("Finished writing %q", title)
		}
		return "A chapter finished generating"
	case "GENERATION_FAILED":
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
		return "Article generation hit an error"
	case "GENERATION_COMPLETED":
		return "All chapters are done"
	default:
		return ""
	}
}
