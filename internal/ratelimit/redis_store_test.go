package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore_CountsAndExpiresWithWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, WithPrefix("test:"))
	now := newFakeClock().Now()
	ctx := context.Background()

	count, resetAt, err := s.Hit(ctx, "upload:10.0.0.1", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, now.Add(time.Minute), resetAt)
	assert.Equal(t, time.Minute, mr.TTL("test:upload:10.0.0.1"))

	count, _, err = s.Hit(ctx, "upload:10.0.0.1", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	mr.FastForward(time.Minute)

	count, _, err = s.Hit(ctx, "upload:10.0.0.1", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStore_ReportsConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = rdb.Close() }()
	s := NewRedisStore(rdb)

	_, _, err := s.Hit(context.Background(), "k", time.Minute, time.Now())
	assert.Error(t, err)
}
