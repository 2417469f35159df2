package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*Result, error) {
	return nil, errors.New("redis: connection refused")
}

func (failingLimiter) Close() error { return nil }

func newTestApp(limiter Limiter, limit int) *fiber.App {
	app := fiber.New()
	app.Post("/login", Middleware(limiter, limit, "login:", nil, &mockLogger{}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestMiddleware_LimitsPerIP(t *testing.T) {
	app := newTestApp(NewLocalLimiter(Config{RequestsPerWindow: 2, WindowSize: time.Minute}), 2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestMiddleware_FailsOpen(t *testing.T) {
	app := newTestApp(failingLimiter{}, 1)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
