package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// KeyFunc extracts the throttling key from a request.
type KeyFunc func(c *fiber.Ctx) string

// ByIP keys requests by client address.
func ByIP(c *fiber.Ctx) string {
	return c.IP()
}

// Middleware returns a fiber handler limiting requests per key under prefix.
// Limiter failures let the request through. A rejected request ends in a
// 429 fiber error so the application's error handler renders it.
func Middleware(limiter Limiter, limit int, prefix string, key KeyFunc, logger types.Logger) fiber.Handler {
	if key == nil {
		key = ByIP
	}
	return func(c *fiber.Ctx) error {
		result, err := limiter.Allow(c.UserContext(), prefix+key(c))
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "path", c.Path(), "error", err)
			return c.Next()
		}

		setRateLimitHeaders(c, result, limit)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			logger.Info("Rate limit exceeded", "path", c.Path(), "ip", c.IP())
			return fiber.NewError(fiber.StatusTooManyRequests,
				fmt.Sprintf("Too many attempts. Please retry after %d seconds.", retryAfter))
		}
		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
