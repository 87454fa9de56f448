package service

import (
	"context"
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
)

func publish(ctx context.Context, dispatcher events.Dispatcher, eventType events.EventType, actor *domain.User, payload interface{}) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Actor:     events.ActorFromUser(actor),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
