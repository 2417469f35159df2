package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/AleksKostadinov/todo-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/errgroup"
)

// TaskService implements the task operations. Every lookup is filtered by
// owner, so another user's task is indistinguishable from a missing one.
type TaskService struct {
	repo   domain.Repository
	bus    mono.EventBus
	logger types.Logger
	now    func() time.Time
}

var _ TaskPort = (*TaskService)(nil)

// NewTaskService creates a new TaskService. bus may be nil, in which case
// no events are published.
func NewTaskService(repo domain.Repository, bus mono.EventBus, logger types.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// ListTasks returns the owner's tasks, newest first, with the number still open.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string) (*domain.List, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	var (
		tasks      []domain.Task
		incomplete int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.repo.ListByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		incomplete, err = s.repo.CountIncompleteByOwner(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to count incomplete tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	return &domain.List{Tasks: tasks, Incomplete: incomplete}, nil
}

// GetTask returns a single task owned by ownerID.
func (s *TaskService) GetTask(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByIDAndOwner(ctx, id, ownerID)
}

// CreateTask validates the input and stores a new incomplete task owned by ownerID.
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	title := domain.NormalizeTitle(in.Title)
	if err := s.checkTitle(ctx, title, 0); err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       title,
		Description: in.Description,
		Complete:    false,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Task created", "task_id", t.ID, "owner", ownerID)
	if s.bus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			OwnerID:   t.OwnerID,
			CreatedAt: t.CreatedDate,
		}
		if err := events.TaskCreatedV1.Publish(s.bus, event, nil); err != nil {
			s.warnPublish("TaskCreated", t.ID, err)
		}
	}
	return t, nil
}

// UpdateTask replaces the editable fields of a task owned by ownerID.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, ownerID string, changes domain.Changes) (*domain.Task, error) {
	current, err := s.GetTask(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	changes.Title = domain.NormalizeTitle(changes.Title)
	if err := s.checkTitle(ctx, changes.Title, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateByIDAndOwner(ctx, id, ownerID, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task updated", "task_id", id, "owner", ownerID, "complete", updated.Complete)
	s.publishUpdate(current, updated)
	return updated, nil
}

// DeleteTask removes a task owned by ownerID.
func (s *TaskService) DeleteTask(ctx context.Context, id int64, ownerID string) error {
	current, err := s.GetTask(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("Task deleted", "task_id", id, "owner", ownerID)
	if s.bus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    id,
			Title:     current.Title,
			OwnerID:   ownerID,
			DeletedAt: s.now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(s.bus, event, nil); err != nil {
			s.warnPublish("TaskDeleted", id, err)
		}
	}
	return nil
}

// DeleteCompleted removes all of the owner's completed tasks. Running it with
// nothing to delete is a successful no-op.
func (s *TaskService) DeleteCompleted(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerRequired
	}

	n, err := s.repo.DeleteCompletedByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Completed tasks cleared", "owner", ownerID, "count", n)
	if n > 0 && s.bus != nil {
		event := events.CompletedTasksClearedEvent{
			OwnerID:   ownerID,
			Count:     n,
			ClearedAt: s.now().UTC(),
		}
		if err := events.CompletedTasksClearedV1.Publish(s.bus, event, nil); err != nil {
			s.warnPublish("CompletedTasksCleared", 0, err)
		}
	}
	return n, nil
}

// checkTitle validates a normalized title and makes sure no task other than
// excludeID uses it. The unique index still backs this up on insert.
func (s *TaskService) checkTitle(ctx context.Context, title string, excludeID int64) error {
	if err := domain.ValidateTitle(title); err != nil {
		return err
	}
	taken, err := s.repo.TitleExists(ctx, title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check title: %w", err)
	}
	if taken {
		return domain.ErrTitleTaken
	}
	return nil
}

func (s *TaskService) publishUpdate(before, after *domain.Task) {
	if s.bus == nil {
		return
	}

	now := s.now().UTC()
	var (
		name string
		err  error
	)
	switch {
	case !before.Complete && after.Complete:
		name = "TaskCompleted"
		err = events.TaskCompletedV1.Publish(s.bus, events.TaskCompletedEvent{
			TaskID:      after.ID,
			Title:       after.Title,
			OwnerID:     after.OwnerID,
			CompletedAt: now,
		}, nil)
	case before.Complete && !after.Complete:
		name = "TaskReopened"
		err = events.TaskReopenedV1.Publish(s.bus, events.TaskReopenedEvent{
			TaskID:     after.ID,
			Title:      after.Title,
			OwnerID:    after.OwnerID,
			ReopenedAt: now,
		}, nil)
	default:
		name = "TaskUpdated"
		err = events.TaskUpdatedV1.Publish(s.bus, events.TaskUpdatedEvent{
			TaskID:    after.ID,
			Title:     after.Title,
			OwnerID:   after.OwnerID,
			UpdatedAt: now,
		}, nil)
	}
	if err != nil {
		s.warnPublish(name, after.ID, err)
	}
}

// Event publishing is best-effort.
func (s *TaskService) warnPublish(event string, taskID int64, err error) {
	s.logger.Warn("Failed to publish event", "event", event, "task_id", taskID, "error", err)
}
