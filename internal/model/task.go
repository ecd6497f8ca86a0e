package model

import "time"

// Task status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task represents a task stored in the local task database.
type Task struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    string // low | medium | high
	Status      string // todo | in_progress | done
	DueDate     string // YYYY-MM-DD, empty when unset
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activity is a single recorded change on a task.
type Activity struct {
	ID        int64
	TaskID    string
	TaskTitle string
	Action    string // created | updated | deleted
	Detail    string
	CreatedAt time.Time
}
