package task

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrEmptyTitle      = errors.New("task title is empty")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidStatus   = errors.New("status must be todo, in_progress or done")
	ErrInvalidDueDate  = errors.New("due date must be YYYY-MM-DD")
)
