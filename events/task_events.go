package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted after an update that leaves the completion state unchanged.
type TaskUpdatedEvent struct {
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task edits.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskCompletedEvent is emitted when a task is marked complete.
type TaskCompletedEvent struct {
	TaskID      int64     `json:"task_id"`
	Title       string    `json:"title"`
	OwnerID     string    `json:"owner_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.task.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"task", "TaskCompleted", "v1",
)

// TaskReopenedEvent is emitted when a completed task is marked incomplete again.
type TaskReopenedEvent struct {
	TaskID     int64     `json:"task_id"`
	Title      string    `json:"title"`
	OwnerID    string    `json:"owner_id"`
	ReopenedAt time.Time `json:"reopened_at"`
}

// TaskReopenedV1 is the typed event definition for reopening a task.
// Subject: events.task.v1.task-reopened
var TaskReopenedV1 = helper.EventDefinition[TaskReopenedEvent](
	"task", "TaskReopened", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)

// CompletedTasksClearedEvent is emitted after a bulk delete of completed tasks removed at least one.
type CompletedTasksClearedEvent struct {
	OwnerID   string    `json:"owner_id"`
	Count     int64     `json:"count"`
	ClearedAt time.Time `json:"cleared_at"`
}

// CompletedTasksClearedV1 is the typed event definition for bulk deletion.
// Subject: events.task.v1.completed-tasks-cleared
var CompletedTasksClearedV1 = helper.EventDefinition[CompletedTasksClearedEvent](
	"task", "CompletedTasksCleared", "v1",
)
