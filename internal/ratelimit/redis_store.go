package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares window counters between replicas. The key expiry is the window.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Hit(ctx context.Context, key string, length time.Duration, now time.Time) (int64, time.Time, error) {
	k := s.prefix + ":" + key

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// first hit of a window, or an expiry lost between commands
		if err := s.rdb.PExpire(ctx, k, length).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = length
	}

	return incr.Val(), now.Add(ttl), nil
}
