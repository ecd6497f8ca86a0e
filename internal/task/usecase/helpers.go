package usecase

import (
	"context"
	"strings"
	"time"

	"intent-assistant/internal/model"
	"intent-assistant/internal/task"
	repo "intent-assistant/internal/task/repository"
)

const defaultPriority = "medium"

// coalesce returns newVal when set, otherwise the existing value.
func (uc *implUseCase) coalesce(newVal, existing string) string {
	if newVal != "" {
		return newVal
	}
	return existing
}

func validatePriority(p string) error {
	switch p {
	case "", "low", "medium", "high":
		return nil
	}
	return task.ErrInvalidPriority
}

func validateStatus(s string) error {
	switch s {
	case "", model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusDone:
		return nil
	}
	return task.ErrInvalidStatus
}

func validateDueDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", d); err != nil {
		return task.ErrInvalidDueDate
	}
	return nil
}

// record stores an activity entry. Failures are logged, not returned.
func (uc *implUseCase) record(ctx context.Context, t model.Task, action, detail string) {
	err := uc.repo.CreateActivity(ctx, repo.CreateActivityOptions{
		TaskID:    t.ID,
		TaskTitle: t.Title,
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		uc.l.Warnf(ctx, "uc.record CreateActivity: %v", err)
	}
}

func changes(before, after model.Task) string {
	var parts []string
	if before.Title != after.Title {
		parts = append(parts, "title="+after.Title)
	}
	if before.Status != after.Status {
		parts = append(parts, "status="+after.Status)
	}
	if before.Priority != after.Priority {
		parts = append(parts, "priority="+after.Priority)
	}
	if before.Category != after.Category {
		parts = append(parts, "category="+after.Category)
	}
	if before.DueDate != after.DueDate {
		parts = append(parts, "due_date="+after.DueDate)
	}
	return strings.Join(parts, ", ")
}
