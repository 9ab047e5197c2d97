package lock

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingKey(t *testing.T) {
	assert.Equal(t, "lock:booking:4:2026-03-09", BookingKey(4, "2026-03-09"))
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()
	key := BookingKey(1, "2026-03-09")

	err := l.WithLock(ctx, key, func(ctx context.Context) error {
		inner := l.WithLock(ctx, key, func(context.Context) error { return nil })
		assert.ErrorIs(t, inner, ErrLockNotAcquired)

		other := l.WithLock(ctx, BookingKey(1, "2026-03-10"), func(context.Context) error { return nil })
		assert.NoError(t, other, "different key is independent")
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, l.WithLock(ctx, key, func(context.Context) error { return boom }), boom)
	assert.NoError(t, l.WithLock(ctx, key, func(context.Context) error { return nil }), "released after error")
}

func TestRedisLocker_ReleaseFailureIsLogged(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := &redisLocker{client: client, ttl: time.Second}
	l.unlock("lock:booking:1:2026-03-09", "token")

	assert.Contains(t, buf.String(), "release lock lock:booking:1:2026-03-09")
}
