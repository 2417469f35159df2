package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/AleksKostadinov/todo-app/domain/task"
	"gorm.io/gorm"
)

// GormTaskRepository handles task persistence using GORM.
type GormTaskRepository struct {
	db *gorm.DB
}

var _ task.Repository = (*GormTaskRepository)(nil)

// NewGormTaskRepository creates a new GormTaskRepository.
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a task and fills in its ID.
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return task.ErrTitleTaken
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's tasks, newest first.
func (r *GormTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]task.Task, error) {
	var tasks []task.Task
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_date DESC").
		Order("id DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", result.Error)
	}
	return tasks, nil
}

// CountIncompleteByOwner counts the owner's tasks that are not complete.
func (r *GormTaskRepository) CountIncompleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("owner_id = ? AND complete = ?", ownerID, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", result.Error)
	}
	return count, nil
}

// GetByIDAndOwner fetches a single task of the owner.
func (r *GormTaskRepository) GetByIDAndOwner(ctx context.Context, id int64, ownerID string) (*task.Task, error) {
	var t task.Task
	result := r.db.WithContext(ctx).First(&t, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", result.Error)
	}
	return &t, nil
}

// UpdateByIDAndOwner writes the editable fields. created_date and owner are never touched.
func (r *GormTaskRepository) UpdateByIDAndOwner(ctx context.Context, id int64, ownerID string, changes task.Changes) (*task.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"title":       changes.Title,
			"description": changes.Description,
			"complete":    changes.Complete,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, task.ErrTitleTaken
		}
		return nil, fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, task.ErrNotFound
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// DeleteByIDAndOwner removes a single task of the owner.
func (r *GormTaskRepository) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&task.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// DeleteCompletedByOwner removes every completed task of the owner in one statement.
func (r *GormTaskRepository) DeleteCompletedByOwner(ctx context.Context, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND complete = ?", ownerID, true).
		Delete(&task.Task{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete completed tasks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// TitleExists reports whether a task other than excludeID already has title.
func (r *GormTaskRepository) TitleExists(ctx context.Context, title string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&task.Task{}).Where("title = ?", title)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return count > 0, nil
}
