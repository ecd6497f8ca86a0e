package sqlite

import (
	"encoding/json"
	"strings"
	"time"

	"intent-assistant/internal/model"
	repo "intent-assistant/internal/task/repository"
)

const taskColumns = `id, title, description, category, priority, status, due_date, tags, created_at, updated_at`

const defaultListLimit = 20

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// buildGetOneQuery returns a WHERE clause and args for GetOneTask.
func (r *implRepository) buildGetOneQuery(opt repo.GetOneTaskOptions) (string, []any) {
	conds := []string{"1=1"}
	var args []any
	if opt.ID != "" {
		conds = append(conds, "id = ?")
		args = append(args, opt.ID)
	}
	if opt.Title != "" {
		conds = append(conds, "LOWER(title) = LOWER(?)")
		args = append(args, strings.TrimSpace(opt.Title))
	}
	return strings.Join(conds, " AND "), args
}

// buildCountQuery returns the filter-only WHERE clause for ListTasks.
func (r *implRepository) buildCountQuery(opt repo.ListTasksOptions) (string, []any) {
	conds := []string{"1=1"}
	var args []any
	if opt.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, opt.Status)
	}
	if opt.Category != "" {
		conds = append(conds, "LOWER(category) = LOWER(?)")
		args = append(args, opt.Category)
	}
	return strings.Join(conds, " AND "), args
}

// buildListQuery returns WHERE, ORDER and pagination for ListTasks.
func (r *implRepository) buildListQuery(opt repo.ListTasksOptions) (string, []any) {
	where, args := r.buildCountQuery(opt)
	limit := opt.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, max(opt.Offset, 0))
	return "WHERE " + where + " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?", args
}

// buildSearchQuery matches any keyword against title, description or category.
func (r *implRepository) buildSearchQuery(opt repo.SearchTasksOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, kw := range opt.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		like := "%" + kw + "%"
		conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	limit := opt.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	return "WHERE " + strings.Join(conds, " OR ") + " ORDER BY updated_at DESC, rowid DESC LIMIT ?", args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var (
		t                model.Task
		tags             string
		created, updated string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status, &t.DueDate, &tags, &created, &updated); err != nil {
		return model.Task{}, err
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		t.Tags = nil
	}
	t.CreatedAt, _ = time.Parse(timeLayout, created)
	t.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return t, nil
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
