package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// FixedWindow adapts ulule/limiter's Redis store. Counters reset at window
// boundaries.
type FixedWindow struct {
	Store limiter.Store
}

// NewFixedWindow wires a fixed-window limiter store backed by Redis.
func NewFixedWindow(rdb *redis.Client, prefix string) (*FixedWindow, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: prefix, MaxRetry: 3})
	if err != nil {
		return nil, fmt.Errorf("ratelimit: redis store: %w", err)
	}
	return &FixedWindow{Store: store}, nil
}

// Allow increments the counter for key.
func (f *FixedWindow) Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error) {
	if f == nil || f.Store == nil || limit <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(window)}, nil
	}
	res, err := f.Store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(limit)})
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     int(res.Limit),
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}
