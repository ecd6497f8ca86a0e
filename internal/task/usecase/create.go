package usecase

import (
	"context"
	"strings"

	"intent-assistant/internal/task"
	repo "intent-assistant/internal/task/repository"
)

// Create validates and stores a new Task.
func (uc *implUseCase) Create(ctx context.Context, input task.CreateInput) (task.CreateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return task.CreateOutput{}, task.ErrEmptyTitle
	}
	if err := validatePriority(input.Priority); err != nil {
		return task.CreateOutput{}, err
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return task.CreateOutput{}, err
	}

	t, err := uc.repo.CreateTask(ctx, repo.CreateTaskOptions{
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Priority:    uc.coalesce(input.Priority, defaultPriority),
		DueDate:     input.DueDate,
		Tags:        input.Tags,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Create CreateTask: %v", err)
		return task.CreateOutput{}, err
	}

	uc.record(ctx, t, "created", "")
	return task.CreateOutput{Task: t}, nil
}
