package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Limiter struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(store Store, log *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store: store,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts the request of client against bucket. Every call increments the
// counter, allowed or not. When the store fails the request is allowed.
func (l *Limiter) Check(ctx context.Context, client string, b Bucket) Decision {
	if l == nil || l.store == nil || b.Max <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()
	count, resetAt, err := l.store.Hit(ctx, b.Name+":"+client, b.Window, now)
	if err != nil {
		l.log.Error("Rate limit store failed, allowing request",
			zap.String("bucket", b.Name),
			zap.String("client", client),
			zap.Error(err))
		return Decision{Allowed: true, Limit: b.Max, Remaining: b.Max}
	}

	dec := Decision{
		Allowed:   count <= b.Max,
		Limit:     b.Max,
		Count:     count,
		Remaining: b.Max - count,
		ResetAt:   resetAt,
	}
	if dec.Remaining < 0 {
		dec.Remaining = 0
	}
	if !dec.Allowed {
		dec.RetryAfter = resetAt.Sub(now)
		l.log.Warn("Rate limit exceeded",
			zap.String("bucket", b.Name),
			zap.String("client", client),
			zap.Int64("count", count))
	}
	return dec
}
