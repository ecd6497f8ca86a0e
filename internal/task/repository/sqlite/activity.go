package sqlite

import (
	"context"
	"time"

	"intent-assistant/internal/model"
	repo "intent-assistant/internal/task/repository"
)

// CreateActivity records one change on a task.
func (r *implRepository) CreateActivity(ctx context.Context, opt repo.CreateActivityOptions) error {
	const query = `
		INSERT INTO task_activity (task_id, task_title, action, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, opt.TaskID, opt.TaskTitle, opt.Action, opt.Detail, formatTime(r.now())); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateActivity"), err)
		return repo.ErrFailedToInsert
	}
	return nil
}

// ListActivities returns the newest activity first.
func (r *implRepository) ListActivities(ctx context.Context, opt repo.ListActivitiesOptions) ([]model.Activity, error) {
	limit := opt.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, task_id, task_title, action, detail, created_at FROM task_activity`
	args := []any{}
	if opt.TaskTitle != "" {
		query += ` WHERE LOWER(task_title) = LOWER(?)`
		args = append(args, opt.TaskTitle)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListActivities"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		var (
			a       model.Activity
			created string
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &a.TaskTitle, &a.Action, &a.Detail, &created); err != nil {
			return nil, repo.ErrFailedToList
		}
		a.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return out, nil
}
