package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/queue"
)

type queryProvider interface {
	GetDomainEvent(ctx context.Context, id pgtype.UUID) (dbgen.DomainEvent, error)
	GetProfile(ctx context.Context, id pgtype.UUID) (dbgen.Profile, error)
}

type locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Handler emails the customer named in a stored domain event.
type Handler struct {
	Q       queryProvider
	Mail    common.EmailSender
	Enabled bool
	// Topics limits which topics are mailed. Nil mails every topic.
	Topics  map[string]bool
	Lock    locker
	LockTTL time.Duration
	Logger  zerolog.Logger
}

// Handle processes one events.TaskNotify task.
func (h *Handler) Handle(ctx context.Context, t queue.Task) error {
	var p events.NotifyPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return fmt.Errorf("notify: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	eventID, err := db.ParseUUID(p.EventID)
	if err != nil {
		return fmt.Errorf("notify: %v: %w", err, asynq.SkipRetry)
	}
	if h.Lock == nil {
		return h.deliver(ctx, eventID)
	}
	ttl := h.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return h.Lock.WithLock(ctx, "lock:notify:"+p.EventID, ttl, func(ctx context.Context) error {
		return h.deliver(ctx, eventID)
	})
}

func (h *Handler) deliver(ctx context.Context, eventID pgtype.UUID) error {
	if !h.Enabled || h.Mail == nil || h.Q == nil {
		return nil
	}
	event, err := h.Q.GetDomainEvent(ctx, eventID)
	if err != nil {
		if db.IsNoRows(err) {
			return fmt.Errorf("notify: event %s not found: %w", db.UUIDString(eventID), asynq.SkipRetry)
		}
		return fmt.Errorf("notify: load event: %w", err)
	}
	if h.Topics != nil && !h.Topics[event.Topic] {
		return nil
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("notify: decode event payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	to, err := h.recipient(ctx, payload)
	if err != nil {
		return err
	}
	if to == "" {
		h.Logger.Debug().Str("event_id", db.UUIDString(event.ID)).Str("topic", event.Topic).Msg("notify: no recipient")
		return nil
	}
	if err := h.Mail.Send(ctx, to, subjectFor(event.Topic), bodyFor(event.Topic, payload, event.OccurredAt.Time)); err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	h.Logger.Info().Str("event_id", db.UUIDString(event.ID)).Str("topic", event.Topic).Msg("notification sent")
	return nil
}

// recipient prefers the email captured at emit time and falls back to the profile.
func (h *Handler) recipient(ctx context.Context, payload map[string]any) (string, error) {
	if email := stringField(payload, "email"); email != "" {
		return email, nil
	}
	uid, err := db.ParseUUID(stringField(payload, "userId"))
	if err != nil {
		return "", nil
	}
	profile, err := h.Q.GetProfile(ctx, uid)
	if err != nil {
		if db.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("notify: load profile: %w", err)
	}
	return profile.Email, nil
}
