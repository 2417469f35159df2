package web

import (
	"context"
	"fmt"
	"time"

	"github.com/AleksKostadinov/todo-app/modules/activity"
	"github.com/AleksKostadinov/todo-app/modules/auth"
	"github.com/AleksKostadinov/todo-app/modules/database"
	"github.com/AleksKostadinov/todo-app/modules/ratelimit"
	"github.com/AleksKostadinov/todo-app/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
)

// WebModule serves the to-do pages over HTTP.
type WebModule struct {
	opts             Options
	sessionRedisAddr string
	server           *Server
	authPort         auth.AuthPort
	taskPort         task.TaskPort
	activityPort     activity.ActivityPort
	db               *database.PluginModule
	limiter          *ratelimit.PluginModule
	storage          fiber.Storage
	logger           types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*WebModule)(nil)
var _ mono.DependentModule = (*WebModule)(nil)
var _ mono.UsePluginModule = (*WebModule)(nil)
var _ mono.HealthCheckableModule = (*WebModule)(nil)

// NewModule creates a new WebModule. An empty sessionRedisAddr keeps
// sessions in memory.
func NewModule(opts Options, sessionRedisAddr string, logger types.Logger) *WebModule {
	return &WebModule{
		opts:             opts,
		sessionRedisAddr: sessionRedisAddr,
		logger:           logger.WithModule("web"),
	}
}

// Name returns the module name.
func (m *WebModule) Name() string {
	return "web"
}

// Dependencies returns the list of module dependencies.
func (m *WebModule) Dependencies() []string {
	return []string{"auth", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *WebModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container)
	}
}

// SetPlugin receives the rate limit plugin, and the database plugin for
// health reporting.
func (m *WebModule) SetPlugin(alias string, plugin mono.PluginModule) {
	switch alias {
	case "ratelimit":
		limiter, ok := plugin.(*ratelimit.PluginModule)
		if !ok {
			m.logger.Error("Invalid plugin type for ratelimit",
				"alias", alias,
				"expected", "*ratelimit.PluginModule")
			return
		}
		m.limiter = limiter
	case "database":
		db, ok := plugin.(*database.PluginModule)
		if !ok {
			m.logger.Error("Invalid plugin type for database",
				"alias", alias,
				"expected", "*database.PluginModule")
			return
		}
		m.db = db
	}
}

// Start builds the server and begins listening.
func (m *WebModule) Start(ctx context.Context) error {
	if m.authPort == nil || m.taskPort == nil {
		return fmt.Errorf("auth and task dependencies not set")
	}

	checks := map[string]HealthChecker{"web": m}
	deps := Deps{
		Auth:         m.authPort,
		Tasks:        m.taskPort,
		Activity:     m.activityPort,
		HealthChecks: checks,
		Logger:       m.logger,
	}
	if m.db != nil {
		checks["database"] = m.db
	}
	if m.limiter != nil {
		deps.Throttle = m.limiter.Handler
		checks["ratelimit"] = m.limiter
	} else {
		m.logger.Warn("Rate limit plugin not registered, login is not throttled")
	}

	if m.sessionRedisAddr != "" {
		if err := pingRedis(ctx, m.sessionRedisAddr); err != nil {
			return fmt.Errorf("session storage unavailable: %w", err)
		}
		m.storage = NewRedisSessionStorage(m.sessionRedisAddr)
		deps.Storage = m.storage
	}

	server, err := NewServer(m.opts, deps)
	if err != nil {
		return err
	}
	m.server = server

	errChan := make(chan error, 1)
	go func() {
		if err := server.app.Listen(m.opts.Addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-time.After(100 * time.Millisecond):
		sessions := "memory"
		if m.sessionRedisAddr != "" {
			sessions = "redis"
		}
		m.logger.Info("HTTP server started", "addr", m.opts.Addr, "sessions", sessions)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop waits for in-flight requests and shuts the server down.
func (m *WebModule) Stop(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	if err := m.server.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	if m.storage != nil {
		if err := m.storage.Close(); err != nil {
			m.logger.Error("Error closing session storage", "error", err)
		}
	}
	m.logger.Info("HTTP server stopped gracefully")
	return nil
}

// Health returns the health status of the module.
func (m *WebModule) Health(_ context.Context) mono.HealthStatus {
	if m.server == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "HTTP server not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr": m.opts.Addr,
		},
	}
}

func pingRedis(ctx context.Context, addr string) error {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return client.Ping(pingCtx).Err()
}
