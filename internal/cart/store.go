package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists cart state between requests.
type Store interface {
	Load(ctx context.Context, cartID string) (State, error)
	Save(ctx context.Context, cartID string, state State) error
	Delete(ctx context.Context, cartID string) error
}

// RedisStore keeps each cart in a hash at cart:{id}. Writes refresh the TTL.
type RedisStore struct {
	R   *redis.Client
	TTL time.Duration
}

func (s RedisStore) key(cartID string) string { return "cart:" + cartID }

func (s RedisStore) ttl() time.Duration {
	if s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

// Load returns the stored state. A missing cart is empty, not an error.
func (s RedisStore) Load(ctx context.Context, cartID string) (State, error) {
	raw, err := s.R.HGetAll(ctx, s.key(cartID)).Result()
	if err != nil {
		return State{}, fmt.Errorf("load cart: %w", err)
	}
	items := make(map[string]int, len(raw))
	for id, v := range raw {
		qty, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		items[id] = qty
	}
	return NewState(items), nil
}

// Save replaces the stored state atomically.
func (s RedisStore) Save(ctx context.Context, cartID string, state State) error {
	key := s.key(cartID)
	_, err := s.R.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if state.Len() == 0 {
			return nil
		}
		fields := make([]any, 0, state.Len()*2)
		for _, id := range state.ProductIDs() {
			fields = append(fields, id, state.Quantity(id))
		}
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, s.ttl())
		return nil
	})
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the cart.
func (s RedisStore) Delete(ctx context.Context, cartID string) error {
	if err := s.R.Del(ctx, s.key(cartID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
