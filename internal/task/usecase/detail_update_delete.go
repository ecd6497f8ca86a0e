package usecase

import (
	"context"

	"intent-assistant/internal/task"
	repo "intent-assistant/internal/task/repository"
)

// Detail retrieves a single Task by ID. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Detail(ctx context.Context, id string) (task.DetailOutput, error) {
	t, err := uc.repo.GetOneTask(ctx, repo.GetOneTaskOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Detail GetOneTask: %v", err)
		return task.DetailOutput{}, err
	}
	if t.ID == "" {
		return task.DetailOutput{}, task.ErrTaskNotFound
	}
	return task.DetailOutput{Task: t}, nil
}

// Update applies a partial update. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Update(ctx context.Context, input task.UpdateInput) (task.UpdateOutput, error) {
	if err := validatePriority(input.Priority); err != nil {
		return task.UpdateOutput{}, err
	}
	if err := validateStatus(input.Status); err != nil {
		return task.UpdateOutput{}, err
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return task.UpdateOutput{}, err
	}

	existing, err := uc.repo.GetOneTask(ctx, repo.GetOneTaskOptions{ID: input.ID})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Update GetOneTask: %v", err)
		return task.UpdateOutput{}, err
	}
	if existing.ID == "" {
		return task.UpdateOutput{}, task.ErrTaskNotFound
	}

	tags := existing.Tags
	if input.Tags != nil {
		tags = input.Tags
	}
	t, err := uc.repo.UpdateTask(ctx, repo.UpdateTaskOptions{
		ID:          input.ID,
		Title:       uc.coalesce(input.Title, existing.Title),
		Description: uc.coalesce(input.Description, existing.Description),
		Category:    uc.coalesce(input.Category, existing.Category),
		Priority:    uc.coalesce(input.Priority, existing.Priority),
		Status:      uc.coalesce(input.Status, existing.Status),
		DueDate:     uc.coalesce(input.DueDate, existing.DueDate),
		Tags:        tags,
	})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Update UpdateTask: %v", err)
		return task.UpdateOutput{}, err
	}
	if t.ID == "" {
		return task.UpdateOutput{}, task.ErrTaskNotFound
	}

	uc.record(ctx, t, "updated", changes(existing, t))
	return task.UpdateOutput{Task: t}, nil
}

// Delete removes a Task by ID. Returns ErrTaskNotFound when not found.
func (uc *implUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.repo.GetOneTask(ctx, repo.GetOneTaskOptions{ID: id})
	if err != nil {
		uc.l.Errorf(ctx, "uc.Delete GetOneTask: %v", err)
		return err
	}
	if existing.ID == "" {
		return task.ErrTaskNotFound
	}
	if err := uc.repo.DeleteTask(ctx, id); err != nil {
		uc.l.Errorf(ctx, "uc.Delete DeleteTask: %v", err)
		return err
	}

	uc.record(ctx, existing, "deleted", "")
	return nil
}
