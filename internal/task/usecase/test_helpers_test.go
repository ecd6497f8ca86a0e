package usecase_test

import (
	"context"
	"errors"
	"strings"

	"intent-assistant/internal/model"
	repo "intent-assistant/internal/task/repository"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

var errRepoDown = errors.New("repo down")

// memRepo is an in-memory repository.Repository.
type memRepo struct {
	tasks      map[string]model.Task
	activities []model.Activity
	nextID     int
	failGet    bool
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: map[string]model.Task{}}
}

func (m *memRepo) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	m.nextID++
	t := model.Task{
		ID:       string(rune('a' + m.nextID - 1)),
		Title:    opt.Title,
		Category: opt.Category,
		Priority: opt.Priority,
		Status:   model.TaskStatusTodo,
		DueDate:  opt.DueDate,
		Tags:     opt.Tags,
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) GetOneTask(ctx context.Context, opt repo.GetOneTaskOptions) (model.Task, error) {
	if m.failGet {
		return model.Task{}, errRepoDown
	}
	if opt.ID != "" {
		return m.tasks[opt.ID], nil
	}
	for _, t := range m.tasks {
		if strings.EqualFold(t.Title, opt.Title) {
			return t, nil
		}
	}
	return model.Task{}, nil
}

func (m *memRepo) ListTasks(ctx context.Context, opt repo.ListTasksOptions) ([]model.Task, int, error) {
	var out []model.Task
	for _, t := range m.tasks {
		if opt.Status == "" || t.Status == opt.Status {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	if _, ok := m.tasks[opt.ID]; !ok {
		return model.Task{}, nil
	}
	t := model.Task{
		ID: opt.ID, Title: opt.Title, Description: opt.Description, Category: opt.Category,
		Priority: opt.Priority, Status: opt.Status, DueDate: opt.DueDate, Tags: opt.Tags,
	}
	m.tasks[opt.ID] = t
	return t, nil
}

func (m *memRepo) DeleteTask(ctx context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *memRepo) SearchTasks(ctx context.Context, opt repo.SearchTasksOptions) ([]model.Task, error) {
	var out []model.Task
	for _, t := range m.tasks {
		for _, kw := range opt.Keywords {
			if strings.Contains(strings.ToLower(t.Title), strings.ToLower(kw)) {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (m *memRepo) ListCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, t := range m.tasks {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out, nil
}

func (m *memRepo) CreateActivity(ctx context.Context, opt repo.CreateActivityOptions) error {
	m.activities = append(m.activities, model.Activity{TaskID: opt.TaskID, TaskTitle: opt.TaskTitle, Action: opt.Action, Detail: opt.Detail})
	return nil
}

func (m *memRepo) ListActivities(ctx context.Context, opt repo.ListActivitiesOptions) ([]model.Activity, error) {
	var out []model.Activity
	for i := len(m.activities) - 1; i >= 0; i-- {
		a := m.activities[i]
		if opt.TaskTitle == "" || strings.EqualFold(a.TaskTitle, opt.TaskTitle) {
			out = append(out, a)
		}
		if opt.Limit > 0 && len(out) == opt.Limit {
			break
		}
	}
	return out, nil
}
