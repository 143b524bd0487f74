package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/lock"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.Locker{R: client, RetryBackoff: 5 * time.Millisecond}, mr
}

func TestWithLockSerialisesHolders(t *testing.T) {
	locker, _ := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var order []string
	var mu sync.Mutex
	firstDone := make(chan struct{})
	releaseFirst := make(chan struct{})
	key := lock.CartKey("c1")

	go func() {
		_ = locker.WithLock(ctx, key, time.Second, func(context.Context) error {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
			close(firstDone)
			<-releaseFirst
			return nil
		})
	}()

	<-firstDone

	go func() {
		_ = locker.WithLock(ctx, key, time.Second, func(context.Context) error {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			return nil
		})
	}()

	close(releaseFirst)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"first", "second"}, order)
}

func TestTryWithLockReportsBusy(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()
	key := lock.CartKey("c2")

	err := locker.TryWithLock(ctx, key, time.Second, func(ctx context.Context) error {
		inner := locker.TryWithLock(ctx, key, time.Second, func(context.Context) error { return nil })
		require.ErrorIs(t, inner, lock.ErrBusy)
		return nil
	})
	require.NoError(t, err)
	require.False(t, mr.Exists(key))
}

func TestWithLockReleasesOnError(t *testing.T) {
	locker, mr := newLocker(t)
	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "k", time.Second, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.False(t, mr.Exists("k"))
}

func TestWithLockMaxWait(t *testing.T) {
	locker, mr := newLocker(t)
	require.NoError(t, mr.Set("held", "someone-else"))
	locker.MaxWait = 30 * time.Millisecond

	err := locker.WithLock(context.Background(), "held", time.Second, func(context.Context) error { return nil })
	require.ErrorIs(t, err, lock.ErrBusy)
	v, _ := mr.Get("held")
	require.Equal(t, "someone-else", v)
}
