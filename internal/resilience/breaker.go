package resilience

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// ErrOpenCircuit is returned when the breaker refuses a call.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// State is the breaker state.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker trips once the failure ratio over at least minCalls outcomes reaches
// the threshold, then rejects calls for the cool-off period. The first call
// after cool-off is a probe that closes or re-opens the breaker.
type Breaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time

	minCalls  int
	threshold float64
	coolOff   time.Duration
	target    string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBreaker builds a closed breaker guarding target.
func NewBreaker(target string, minCalls int, threshold float64, coolOff time.Duration) *Breaker {
	if minCalls <= 0 {
		minCalls = 1
	}
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	if coolOff <= 0 {
		coolOff = 30 * time.Second
	}
	target = strings.TrimSpace(target)
	if target == "" {
		target = "default"
	}
	b := &Breaker{
		minCalls:  minCalls,
		threshold: threshold,
		coolOff:   coolOff,
		target:    target,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	b.recordState()
	return b
}

// WithLogger sets the logger used for state transitions.
func (b *Breaker) WithLogger(logger zerolog.Logger) *Breaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
	return b
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. An open breaker past its cool-off
// moves to half-open and admits one probe.
func (b *Breaker) Allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Open {
		return true
	}
	if b.now().Sub(b.openedAt) < b.coolOff {
		return false
	}
	b.transition(ctx, HalfOpen)
	return true
}

// Report records the outcome of an admitted call.
func (b *Breaker) Report(ctx context.Context, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		return
	case HalfOpen:
		if success {
			b.transition(ctx, Closed)
		} else {
			b.transition(ctx, Open)
		}
		return
	}

	if success {
		b.successes++
	} else {
		b.failures++
	}
	total := b.failures + b.successes
	if total < b.minCalls {
		return
	}
	if float64(b.failures)/float64(total) >= b.threshold {
		b.transition(ctx, Open)
		return
	}
	if total > b.minCalls*2 {
		// decay so old outcomes stop dominating
		b.successes = (b.successes + 1) / 2
		b.failures = (b.failures + 1) / 2
	}
}

// Do runs fn when the breaker allows it and reports the outcome. Context
// cancellation is not counted as a failure.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if !b.Allow(ctx) {
		return ErrOpenCircuit
	}
	err := fn(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	b.Report(ctx, err == nil)
	return err
}

func (b *Breaker) transition(ctx context.Context, next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	b.failures, b.successes = 0, 0
	switch next {
	case Open:
		b.openedAt = b.now()
		BreakerOpenedTotal.WithLabelValues(b.target).Inc()
	case Closed:
		b.openedAt = time.Time{}
	}
	b.recordState()
	BreakerTransitions.WithLabelValues(b.target, prev.String(), next.String()).Inc()

	evt := b.logger.Info().Str("target", b.target).Str("from_state", prev.String()).Str("to_state", next.String())
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		evt = evt.Str("trace_id", span.TraceID().String())
	}
	evt.Msg("breaker_transition")
}

func (b *Breaker) recordState() {
	BreakerState.WithLabelValues(b.target).Set(float64(b.state))
}

// Backoff returns base doubled per attempt, spread by ±jitter (a fraction).
func Backoff(base time.Duration, attempt int, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base << uint(attempt-1)
	if jitter <= 0 {
		return d
	}
	delta := (rand.Float64()*2 - 1) * float64(d) * jitter
	return d + time.Duration(delta)
}

// Retry calls fn up to attempts times, sleeping with Backoff in between.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		timer := time.NewTimer(Backoff(base, i, 0.2))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}
