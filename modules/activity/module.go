package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleksKostadinov/todo-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// MaxRecentLimit caps the number of entries a single recent-activity call returns.
const MaxRecentLimit = 100

// Module consumes task events and keeps a per-owner activity feed.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new activity module.
func NewModule(feedSize int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(feedSize),
		logger: logger.WithModule("activity"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every task event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskReopenedV1, m.handleTaskReopened, m); err != nil {
		return fmt.Errorf("failed to register TaskReopened consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CompletedTasksClearedV1, m.handleCompletedCleared, m); err != nil {
		return fmt.Errorf("failed to register CompletedTasksCleared consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{
		"TaskCreated.v1", "TaskUpdated.v1", "TaskCompleted.v1",
		"TaskReopened.v1", "TaskDeleted.v1", "CompletedTasksCleared.v1",
	})
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindCreated, TaskID: event.TaskID, Title: event.Title, At: event.CreatedAt})
	m.logger.Debug("Recorded task creation", "task_id", event.TaskID, "owner", event.OwnerID)
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindUpdated, TaskID: event.TaskID, Title: event.Title, At: event.UpdatedAt})
	return nil
}

func (m *Module) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindCompleted, TaskID: event.TaskID, Title: event.Title, At: event.CompletedAt})
	return nil
}

func (m *Module) handleTaskReopened(_ context.Context, event events.TaskReopenedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindReopened, TaskID: event.TaskID, Title: event.Title, At: event.ReopenedAt})
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindDeleted, TaskID: event.TaskID, Title: event.Title, At: event.DeletedAt})
	return nil
}

func (m *Module) handleCompletedCleared(_ context.Context, event events.CompletedTasksClearedEvent, _ *mono.Msg) error {
	m.feed.Record(event.OwnerID, Entry{Kind: KindCleared, Count: event.Count, At: event.ClearedAt})
	m.logger.Debug("Recorded bulk delete", "owner", event.OwnerID, "count", event.Count)
	return nil
}

// RegisterServices registers the recent-activity service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.handleRecentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	m.logger.Info("Registered services", "services", "recent-activity")
	return nil
}

func (m *Module) handleRecentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return RecentActivityResponse{Entries: m.feed.Recent(req.OwnerID, limit)}, nil
}

// Start initializes the activity module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started", "feed_size", m.feed.size)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}

// Health reports the feed counters.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"owners": m.feed.Owners(),
			"totals": m.feed.Totals(),
		},
	}
}
