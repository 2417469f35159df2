package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/events"
	"github.com/AleksKostadinov/todo-app/modules/database"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// TaskModule provides the task operations and emits task lifecycle events.
type TaskModule struct {
	service  *TaskService
	db       *database.PluginModule
	eventBus mono.EventBus
	logger   types.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.UsePluginModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

func NewModule(logger types.Logger) *TaskModule {
	return &TaskModule{
		logger: logger.WithModule("task"),
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	db, ok := plugin.(*database.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for database",
			"alias", alias,
			"expected", "*database.PluginModule")
		return
	}
	m.db = db
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskReopenedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
		events.CompletedTasksClearedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-completed", json.Unmarshal, json.Marshal, m.deleteCompleted,
	); err != nil {
		return fmt.Errorf("failed to register delete-completed service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "list-tasks, get-task, create-task, update-task, delete-task, delete-completed")
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, events will not be published")
	}

	m.service = NewTaskService(m.db.Port().Tasks, m.eventBus, m.logger)
	m.logger.Info("Task module started")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Task module stopped")
	return nil
}

func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"events": m.eventBus != nil,
		},
	}
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	list, err := m.service.ListTasks(ctx, req.OwnerID)
	if err != nil {
		if code := errorCode(err); code != "" {
			return ListTasksResponse{Error: code}, nil
		}
		m.logger.Error("Listing tasks failed", "owner", req.OwnerID, "error", err)
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{Tasks: list.Tasks, Incomplete: list.Incomplete}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.GetTask(ctx, req.ID, req.OwnerID)
	return m.taskResponse("get", req.ID, t, err)
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.CreateTask(ctx, req.OwnerID, CreateInput{Title: req.Title, Description: req.Description})
	return m.taskResponse("create", 0, t, err)
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.UpdateTask(ctx, req.ID, req.OwnerID, domain.Changes{
		Title:       req.Title,
		Description: req.Description,
		Complete:    req.Complete,
	})
	return m.taskResponse("update", req.ID, t, err)
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.DeleteTask(ctx, req.ID, req.OwnerID); err != nil {
		if code := errorCode(err); code != "" {
			return DeleteTaskResponse{Error: code}, nil
		}
		m.logger.Error("Deleting task failed", "task_id", req.ID, "error", err)
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) deleteCompleted(ctx context.Context, req DeleteCompletedRequest, _ *mono.Msg) (DeleteCompletedResponse, error) {
	n, err := m.service.DeleteCompleted(ctx, req.OwnerID)
	if err != nil {
		if code := errorCode(err); code != "" {
			return DeleteCompletedResponse{Error: code}, nil
		}
		m.logger.Error("Clearing completed tasks failed", "owner", req.OwnerID, "error", err)
		return DeleteCompletedResponse{}, err
	}
	return DeleteCompletedResponse{Deleted: n}, nil
}

func (m *TaskModule) taskResponse(op string, id int64, t *domain.Task, err error) (TaskResponse, error) {
	if err != nil {
		if code := errorCode(err); code != "" {
			return TaskResponse{Error: code}, nil
		}
		m.logger.Error("Task operation failed", "op", op, "task_id", id, "error", err)
		return TaskResponse{}, err
	}
	return TaskResponse{Task: t}, nil
}
