package task

import domain "github.com/AleksKostadinov/todo-app/domain/task"

// CreateInput holds the fields accepted when creating a task. The owner is
// never part of it; it always comes from the authenticated session.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListTasksRequest is the request for the list-tasks service.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// ListTasksResponse is the response from the list-tasks service.
type ListTasksResponse struct {
	Tasks      []domain.Task `json:"tasks"`
	Incomplete int64         `json:"incomplete"`
	Error      string        `json:"error,omitempty"`
}

// GetTaskRequest is the request for the get-task service.
type GetTaskRequest struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"owner_id"`
}

// CreateTaskRequest is the request for the create-task service.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the request for the update-task service.
type UpdateTaskRequest struct {
	ID          int64  `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complete    bool   `json:"complete"`
}

// TaskResponse is returned by get-task, create-task and update-task.
type TaskResponse struct {
	Task  *domain.Task `json:"task,omitempty"`
	Error string       `json:"error,omitempty"`
}

// DeleteTaskRequest is the request for the delete-task service.
type DeleteTaskRequest struct {
	ID      int64  `json:"id"`
	OwnerID string `json:"owner_id"`
}

// DeleteTaskResponse is the response from the delete-task service.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// DeleteCompletedRequest is the request for the delete-completed service.
type DeleteCompletedRequest struct {
	OwnerID string `json:"owner_id"`
}

// DeleteCompletedResponse is the response from the delete-completed service.
type DeleteCompletedResponse struct {
	Deleted int64  `json:"deleted"`
	Error   string `json:"error,omitempty"`
}
