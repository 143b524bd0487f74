package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON read-through cache over Redis. A nil *Cache is valid and
// always misses.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache returns nil, which disables caching, when rdb is nil or ttl <= 0.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Invalidate deletes keys. Errors are ignored; entries expire on their own.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}

// readThrough serves key from c or calls load and stores its result. Cache
// failures degrade to calling load; load errors are never cached.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	if c != nil && key != "" {
		if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			var hit T
			if json.Unmarshal(raw, &hit) == nil {
				return hit, nil
			}
		}
	}
	v, err := load()
	if err != nil || c == nil || key == "" {
		return v, err
	}
	if raw, mErr := json.Marshal(v); mErr == nil {
		c.rdb.Set(ctx, key, raw, c.ttl)
	}
	return v, nil
}
