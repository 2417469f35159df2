package task

import (
	"strings"
	"time"
)

// NoDescription is displayed in place of an empty description.
const NoDescription = "No description"

// Task is a to-do item owned by a single user.
type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime;not null;index" json:"created_date"`
	Complete    bool      `gorm:"not null;default:false" json:"complete"`
	OwnerID     string    `gorm:"type:text;not null;index" json:"owner_id"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// DisplayDescription returns the description, or NoDescription when it is blank.
// The stored value is left untouched.
func (t Task) DisplayDescription() string {
	if strings.TrimSpace(t.Description) == "" {
		return NoDescription
	}
	return t.Description
}

// Changes carries the editable fields of a task.
type Changes struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Complete    bool   `json:"complete"`
}

// List is a user's task list together with the number of tasks still open.
type List struct {
	Tasks      []Task `json:"tasks"`
	Incomplete int64  `json:"incomplete"`
}
