// Package ratelimit throttles abuse-prone public endpoints with Redis counters.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/observability"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const keyPrefix = "ratelimit"

// Counter increments a counter that expires after window and returns the new value.
type Counter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements Counter with INCR and EXPIRE in one transaction.
type RedisCounter struct {
	client redis.Cmdable
}

// NewRedisCounter wraps client.
func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Limiter implements fixed-window counting. A nil limiter, or any counter
// error, lets the request through.
type Limiter struct {
	counter Counter
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewLimiter constructs a limiter over counter.
func NewLimiter(counter Counter, logger *zap.Logger, metrics *observability.Metrics) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{counter: counter, logger: logger.Named("ratelimit"), metrics: metrics, now: time.Now}
}

// Allow counts one hit for (bucket, subject) in the current window and
// reports whether it is still within limit.
func (l *Limiter) Allow(ctx context.Context, bucket, subject string, limit int, window time.Duration) (bool, error) {
	if l == nil || l.counter == nil || limit <= 0 || window < time.Second {
		return true, nil
	}
	slot := l.now().Unix() / int64(window/time.Second)
	key := fmt.Sprintf("%s:%s:%s:%d", keyPrefix, bucket, subject, slot)

	n, err := l.counter.Increment(ctx, key, window)
	if err != nil {
		return true, err
	}
	return n <= int64(limit), nil
}

// Middleware limits requests per client IP.
func (l *Limiter) Middleware(bucket string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := l.Allow(c.UserContext(), bucket, c.IP(), limit, window)
		if err != nil {
			l.logger.Warn("rate limiter unavailable; allowing request", zap.String("bucket", bucket), zap.Error(err))
			return c.Next()
		}
		if !ok {
			l.metrics.RateLimited(bucket)
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return apperrors.NewRateLimited("Request was throttled. Try again later.")
		}
		return c.Next()
	}
}
