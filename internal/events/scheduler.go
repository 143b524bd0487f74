package events

import (
	"context"
	"encoding/json"

	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/queue"
)

type taskEnqueuer interface {
	Enqueue(ctx context.Context, t queue.Task) error
}

// NotifyPayload is the body of a TaskNotify task.
type NotifyPayload struct {
	EventID string `json:"eventId"`
	Topic   string `json:"topic"`
}

// QueueScheduler enqueues a notification task per event, keyed by event id.
type QueueScheduler struct {
	Queue       taskEnqueuer
	MaxAttempts int
}

// Schedule implements DeliveryScheduler.
func (s QueueScheduler) Schedule(ctx context.Context, event dbgen.DomainEvent) error {
	if s.Queue == nil {
		return nil
	}
	id := db.UUIDString(event.ID)
	body, err := json.Marshal(NotifyPayload{EventID: id, Topic: event.Topic})
	if err != nil {
		return err
	}
	return s.Queue.Enqueue(ctx, queue.Task{
		Kind:           TaskNotify,
		Payload:        body,
		IdempotencyKey: id,
		MaxAttempts:    s.MaxAttempts,
	})
}
