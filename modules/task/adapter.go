package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the task operations interface used by the web module.
type TaskPort interface {
	ListTasks(ctx context.Context, ownerID string) (*domain.List, error)
	GetTask(ctx context.Context, id int64, ownerID string) (*domain.Task, error)
	CreateTask(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, ownerID string, changes domain.Changes) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64, ownerID string) error
	DeleteCompleted(ctx context.Context, ownerID string) (int64, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

func (a *TaskAdapter) ListTasks(ctx context.Context, ownerID string) (*domain.List, error) {
	req := ListTasksRequest{OwnerID: ownerID}
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}
	if resp.Tasks == nil {
		resp.Tasks = []domain.Task{}
	}
	return &domain.List{Tasks: resp.Tasks, Incomplete: resp.Incomplete}, nil
}

func (a *TaskAdapter) GetTask(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	req := GetTaskRequest{ID: id, OwnerID: ownerID}
	var resp TaskResponse
	if err := callService(ctx, a.container, "get-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskFromResponse(resp)
}

func (a *TaskAdapter) CreateTask(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	req := CreateTaskRequest{OwnerID: ownerID, Title: in.Title, Description: in.Description}
	var resp TaskResponse
	if err := callService(ctx, a.container, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskFromResponse(resp)
}

func (a *TaskAdapter) UpdateTask(ctx context.Context, id int64, ownerID string, changes domain.Changes) (*domain.Task, error) {
	req := UpdateTaskRequest{
		ID:          id,
		OwnerID:     ownerID,
		Title:       changes.Title,
		Description: changes.Description,
		Complete:    changes.Complete,
	}
	var resp TaskResponse
	if err := callService(ctx, a.container, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	return taskFromResponse(resp)
}

func (a *TaskAdapter) DeleteTask(ctx context.Context, id int64, ownerID string) error {
	req := DeleteTaskRequest{ID: id, OwnerID: ownerID}
	var resp DeleteTaskResponse
	if err := callService(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return errorFromCode(resp.Error)
	}
	return nil
}

func (a *TaskAdapter) DeleteCompleted(ctx context.Context, ownerID string) (int64, error) {
	req := DeleteCompletedRequest{OwnerID: ownerID}
	var resp DeleteCompletedResponse
	if err := callService(ctx, a.container, "delete-completed", &req, &resp); err != nil {
		return 0, err
	}
	if resp.Error != "" {
		return 0, errorFromCode(resp.Error)
	}
	return resp.Deleted, nil
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func taskFromResponse(resp TaskResponse) (*domain.Task, error) {
	if resp.Error != "" {
		return nil, errorFromCode(resp.Error)
	}
	if resp.Task == nil {
		return nil, errors.New("task: empty response")
	}
	return resp.Task, nil
}
