package usecase

import (
	"context"

	"intent-assistant/internal/model"
	"intent-assistant/internal/task"
	repo "intent-assistant/internal/task/repository"
)

const (
	defaultSearchLimit   = 10
	defaultActivityLimit = 20
)

// Categories lists the distinct categories in use.
func (uc *implUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := uc.repo.ListCategories(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Categories ListCategories: %v", err)
		return nil, err
	}
	return cats, nil
}

// Search finds tasks that mention any of the keywords.
func (uc *implUseCase) Search(ctx context.Context, input task.SearchInput) ([]model.Task, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	tasks, err := uc.repo.SearchTasks(ctx, repo.SearchTasksOptions{Keywords: input.Keywords, Limit: limit})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Search SearchTasks: %v", err)
		return nil, err
	}
	return tasks, nil
}

// RecentActivity returns the newest activity, optionally for one task title.
func (uc *implUseCase) RecentActivity(ctx context.Context, input task.ActivityInput) ([]model.Activity, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	acts, err := uc.repo.ListActivities(ctx, repo.ListActivitiesOptions{TaskTitle: input.TaskTitle, Limit: limit})
	if err != nil {
		uc.l.Errorf(ctx, "uc.RecentActivity ListActivities: %v", err)
		return nil, err
	}
	return acts, nil
}
