package task

import "context"

// Repository persists tasks. Every read and write that targets an existing
// task is filtered by owner, so a task belonging to someone else behaves
// exactly like a missing one and yields ErrNotFound.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	CountIncompleteByOwner(ctx context.Context, ownerID string) (int64, error)
	GetByIDAndOwner(ctx context.Context, id int64, ownerID string) (*Task, error)
	UpdateByIDAndOwner(ctx context.Context, id int64, ownerID string, changes Changes) (*Task, error)
	DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error
	// DeleteCompletedByOwner removes the owner's completed tasks and returns how many went.
	DeleteCompletedByOwner(ctx context.Context, ownerID string) (int64, error)
	// TitleExists reports whether any task other than excludeID uses title.
	// Pass 0 to check against all tasks.
	TitleExists(ctx context.Context, title string, excludeID int64) (bool, error)
}
