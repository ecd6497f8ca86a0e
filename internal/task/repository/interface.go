package repository

import (
	"context"

	"intent-assistant/internal/model"
)

// Repository is the composed interface for the task data store.
type Repository interface {
	TaskRepository
	ActivityRepository
}

// TaskRepository defines all data access methods for the Task entity.
type TaskRepository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	GetOneTask(ctx context.Context, opt GetOneTaskOptions) (model.Task, error)
	ListTasks(ctx context.Context, opt ListTasksOptions) ([]model.Task, int, error)
	UpdateTask(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SearchTasks(ctx context.Context, opt SearchTasksOptions) ([]model.Task, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ActivityRepository records and reads task activity.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, opt CreateActivityOptions) error
	ListActivities(ctx context.Context, opt ListActivitiesOptions) ([]model.Activity, error)
}
