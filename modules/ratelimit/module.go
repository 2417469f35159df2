package ratelimit

import (
	"context"
	"fmt"

	"github.com/AleksKostadinov/todo-app/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this plugin writes to Redis.
const KeyPrefix = "todo:ratelimit:"

// PluginModule owns the limiter shared by the consumers that throttle requests.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.RateLimitConfig
	logger    types.Logger

	client  *redis.Client
	limiter Limiter
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the rate limit plugin.
func NewPluginModule(cfg config.RateLimitConfig, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:    cfg,
		logger: logger.WithModule("ratelimit"),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "ratelimit"
}

// Start connects to Redis when an address is configured and falls back to
// the in-process limiter otherwise.
func (m *PluginModule) Start(ctx context.Context) error {
	limits := Config{
		RequestsPerWindow: m.cfg.Requests,
		WindowSize:        m.cfg.Window,
	}

	if m.cfg.RedisAddr == "" {
		m.limiter = NewLocalLimiter(limits)
		m.logger.Info("Rate limit plugin started", "backend", "memory",
			"requests", limits.RequestsPerWindow, "window", limits.WindowSize.String())
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr: m.cfg.RedisAddr,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.cfg.RedisAddr, err)
	}

	m.limiter = NewSlidingWindowLimiter(m.client, limits, KeyPrefix)
	m.logger.Info("Rate limit plugin started", "backend", "redis", "addr", m.cfg.RedisAddr,
		"requests", limits.RequestsPerWindow, "window", limits.WindowSize.String())
	return nil
}

// Stop closes the Redis connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.limiter != nil {
		m.limiter.Close()
	}
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Error closing Redis connection", "error", err)
		}
	}
	m.logger.Info("Rate limit plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the limiter. Only valid after Start.
func (m *PluginModule) Port() Limiter {
	return m.limiter
}

// Handler returns middleware limiting requests per client IP under the given scope.
func (m *PluginModule) Handler(scope string) fiber.Handler {
	return Middleware(m.limiter, m.cfg.Requests, scope+":", ByIP, m.logger)
}

// Health pings Redis when it is in use.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.limiter == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "limiter not initialized",
		}
	}
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"backend": "memory"},
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"backend": "redis"},
	}
}
