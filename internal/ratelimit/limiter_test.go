package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{counts: map[string]int64{}}
}

func (m *memoryCounter) Increment(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(newMemoryCounter(), nil, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "login", "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i+1)
	}
	ok, err := l.Allow(ctx, "login", "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "login", "5.6.7.8", 3, time.Minute)
	assert.True(t, ok, "other subjects have their own counter")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "login", "1.2.3.4", 3, time.Minute)
	assert.True(t, ok, "a new window resets the count")
}

func TestAllowFailsOpen(t *testing.T) {
	counter := newMemoryCounter()
	counter.err = errors.New("connection refused")
	l := NewLimiter(counter, nil, nil)

	ok, err := l.Allow(context.Background(), "login", "1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, ok)

	var nilLimiter *Limiter
	ok, err = nilLimiter.Allow(context.Background(), "login", "1.2.3.4", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := NewLimiter(newMemoryCounter(), nil, nil)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Post("/login", l.Middleware("login", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}
