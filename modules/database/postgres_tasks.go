package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AleksKostadinov/todo-app/domain/task"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = "id, title, description, created_date, complete, owner_id"

// PostgresTaskRepository handles task persistence using pgx.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

var _ task.Repository = (*PostgresTaskRepository)(nil)

// NewPostgresTaskRepository creates a new PostgresTaskRepository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Create inserts a task and fills in its ID.
func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	if t.CreatedDate.IsZero() {
		t.CreatedDate = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, created_date, complete, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		t.Title, t.Description, t.CreatedDate, t.Complete, t.OwnerID,
	).Scan(&t.ID)
	if err != nil {
		if isPgDuplicateKeyError(err) {
			return task.ErrTitleTaken
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's tasks, newest first.
func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]task.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_date DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CountIncompleteByOwner counts the owner's tasks that are not complete.
func (r *PostgresTaskRepository) CountIncompleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM tasks WHERE owner_id = $1 AND NOT complete`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// GetByIDAndOwner fetches a single task of the owner.
func (r *PostgresTaskRepository) GetByIDAndOwner(ctx context.Context, id int64, ownerID string) (*task.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// UpdateByIDAndOwner writes the editable fields. created_date and owner are never touched.
func (r *PostgresTaskRepository) UpdateByIDAndOwner(ctx context.Context, id int64, ownerID string, changes task.Changes) (*task.Task, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $3, description = $4, complete = $5
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, changes.Title, changes.Description, changes.Complete,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, task.ErrNotFound
		}
		if isPgDuplicateKeyError(err) {
			return nil, task.ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteByIDAndOwner removes a single task of the owner.
func (r *PostgresTaskRepository) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}
	return nil
}

// DeleteCompletedByOwner removes every completed task of the owner in one statement.
func (r *PostgresTaskRepository) DeleteCompletedByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1 AND complete`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TitleExists reports whether a task other than excludeID already has title.
func (r *PostgresTaskRepository) TitleExists(ctx context.Context, title string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE title = $1 AND id <> $2)`,
		title, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return exists, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var t task.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedDate, &t.Complete, &t.OwnerID); err != nil {
		return nil, err
	}
	return &t, nil
}
