package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"intent-assistant/internal/model"
	repo "intent-assistant/internal/task/repository"
)

// CreateTask inserts a new Task row and returns the created entity.
func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	now := r.now()
	t := model.Task{
		ID:          uuid.NewString(),
		Title:       opt.Title,
		Description: opt.Description,
		Category:    opt.Category,
		Priority:    opt.Priority,
		Status:      model.TaskStatusTodo,
		DueDate:     opt.DueDate,
		Tags:        opt.Tags,
	}

	const query = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.Category, t.Priority, t.Status, t.DueDate,
		encodeTags(t.Tags), formatTime(now), formatTime(now),
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}

	t.CreatedAt, t.UpdatedAt = now.UTC(), now.UTC()
	return t, nil
}

// GetOneTask retrieves a single Task by the provided filters (AND condition).
// Returns zero-value Task (ID == "") when not found.
func (r *implRepository) GetOneTask(ctx context.Context, opt repo.GetOneTaskOptions) (model.Task, error) {
	where, args := r.buildGetOneQuery(opt)
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC LIMIT 1", taskColumns, where)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}
	return t, nil
}

// ListTasks returns a page of Tasks and the total count.
func (r *implRepository) ListTasks(ctx context.Context, opt repo.ListTasksOptions) ([]model.Task, int, error) {
	countWhere, countArgs := r.buildCountQuery(opt)
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE "+countWhere, countArgs...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListTasks"), err)
		return nil, 0, repo.ErrFailedToList
	}

	mods, args := r.buildListQuery(opt)
	tasks, err := r.queryTasks(ctx, fmt.Sprintf("SELECT %s FROM tasks %s", taskColumns, mods), args)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListTasks"), err)
		return nil, 0, repo.ErrFailedToList
	}
	return tasks, total, nil
}

// UpdateTask overwrites the mutable columns of a Task.
func (r *implRepository) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	const query = `
		UPDATE tasks
		SET title = ?, description = ?, category = ?, priority = ?, status = ?, due_date = ?, tags = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		opt.Title, opt.Description, opt.Category, opt.Priority, opt.Status, opt.DueDate,
		encodeTags(opt.Tags), formatTime(r.now()), opt.ID,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, nil
	}
	return r.GetOneTask(ctx, repo.GetOneTaskOptions{ID: opt.ID})
}

// DeleteTask removes a Task row.
func (r *implRepository) DeleteTask(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteTask"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

// SearchTasks returns tasks matching any keyword, most recently updated first.
func (r *implRepository) SearchTasks(ctx context.Context, opt repo.SearchTasksOptions) ([]model.Task, error) {
	mods, args := r.buildSearchQuery(opt)
	if mods == "" {
		return []model.Task{}, nil
	}
	tasks, err := r.queryTasks(ctx, fmt.Sprintf("SELECT %s FROM tasks %s", taskColumns, mods), args)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SearchTasks"), err)
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

// ListCategories returns the distinct non-empty categories, alphabetically.
func (r *implRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM tasks WHERE category != '' ORDER BY category`)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListCategories"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, repo.ErrFailedToList
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return out, nil
}

func (r *implRepository) queryTasks(ctx context.Context, query string, args []any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
