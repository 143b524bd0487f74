package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// DefaultQueue is the asynq queue used when none is configured.
const DefaultQueue = "default"

// Task represents a job to be processed asynchronously.
type Task struct {
	Kind           string
	Payload        []byte
	IdempotencyKey string
	MaxAttempts    int
	Delay          time.Duration
}

type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer publishes tasks to asynq. Satisfied by *asynq.Client.
type Enqueuer struct {
	Client   taskClient
	Queue    string
	DedupTTL time.Duration
}

// Enqueue submits the task. When an idempotency key is supplied the task is
// enqueued at most once while asynq retains it.
func (e Enqueuer) Enqueue(ctx context.Context, t Task) error {
	if e.Client == nil {
		return errors.New("queue: client not configured")
	}
	kind := sanitizeKind(t.Kind)
	if kind == "" {
		return errors.New("queue: task kind is required")
	}
	maxAttempts := t.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	opts := []asynq.Option{asynq.Queue(e.queue()), asynq.MaxRetry(maxAttempts - 1)}
	if t.Delay > 0 {
		opts = append(opts, asynq.ProcessIn(t.Delay))
	}
	if t.IdempotencyKey != "" {
		ttl := e.DedupTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		opts = append(opts, asynq.TaskID(kind+":"+t.IdempotencyKey), asynq.Retention(ttl))
	}
	_, err := e.Client.EnqueueContext(ctx, asynq.NewTask(kind, t.Payload), opts...)
	switch {
	case err == nil:
		QueueEnqueuedTotal.WithLabelValues(kind, "queued").Inc()
		return nil
	case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
		QueueEnqueuedTotal.WithLabelValues(kind, "duplicate").Inc()
		return nil
	default:
		QueueEnqueuedTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("queue: enqueue %s: %w", kind, err)
	}
}

func (e Enqueuer) queue() string {
	if e.Queue == "" {
		return DefaultQueue
	}
	return e.Queue
}

func sanitizeKind(kind string) string {
	for i := 0; i < len(kind); i++ {
		c := kind[i]
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '-' || c == '_' || c == ':' || c == '.' {
			continue
		}
		return ""
	}
	return kind
}

// HandlerFunc processes a single task.
type HandlerFunc func(ctx context.Context, t Task) error

// Mux routes asynq tasks by kind to handlers and records their outcome.
type Mux struct {
	mux    *asynq.ServeMux
	Logger zerolog.Logger
}

// NewMux builds an empty Mux.
func NewMux(logger zerolog.Logger) *Mux {
	return &Mux{mux: asynq.NewServeMux(), Logger: logger}
}

// Handle registers fn for kind.
func (m *Mux) Handle(kind string, fn HandlerFunc) {
	m.mux.HandleFunc(kind, m.Wrap(kind, fn))
}

// Wrap adapts fn into an asynq handler with logging and metrics.
func (m *Mux) Wrap(kind string, fn HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, at *asynq.Task) error {
		start := time.Now()
		err := fn(ctx, Task{Kind: at.Type(), Payload: at.Payload()})
		status := "ok"
		if err != nil {
			status = "error"
			if errors.Is(err, asynq.SkipRetry) {
				status = "skipped"
			}
			m.Logger.Warn().Err(err).Str("kind", kind).Msg("task failed")
		}
		QueueProcessedTotal.WithLabelValues(kind, status).Inc()
		QueueTaskDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the underlying asynq handler for the server.
func (m *Mux) Handler() asynq.Handler { return m.mux }

// NewServer configures an asynq server consuming the given queue.
func NewServer(opt asynq.RedisConnOpt, queueName string, concurrency int, logger zerolog.Logger) *asynq.Server {
	if queueName == "" {
		queueName = DefaultQueue
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName: 1},
		Logger:      zerologAdapter{l: logger},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			if retried >= maxRetry {
				QueueDLQTotal.WithLabelValues(task.Type()).Inc()
			}
		}),
	})
}

type zerologAdapter struct{ l zerolog.Logger }

func (z zerologAdapter) Debug(args ...any) { z.l.Debug().Msg(fmt.Sprint(args...)) }
func (z zerologAdapter) Info(args ...any)  { z.l.Info().Msg(fmt.Sprint(args...)) }
func (z zerologAdapter) Warn(args ...any)  { z.l.Warn().Msg(fmt.Sprint(args...)) }
func (z zerologAdapter) Error(args ...any) { z.l.Error().Msg(fmt.Sprint(args...)) }
func (z zerologAdapter) Fatal(args ...any) { z.l.Fatal().Msg(fmt.Sprint(args...)) }
