package task

import "intent-assistant/internal/model"

// --- UseCase Inputs ---

type CreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     string
	Tags        []string
}

type ListInput struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

type UpdateInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     string
	Tags        []string
}

// SearchInput finds tasks whose title, description or category contains
// any of the keywords.
type SearchInput struct {
	Keywords []string
	Limit    int
}

// ActivityInput filters recorded activity. An empty TaskTitle returns the
// most recent activity across all tasks.
type ActivityInput struct {
	TaskTitle string
	Limit     int
}

// --- UseCase Outputs ---

type CreateOutput struct {
	Task model.Task
}

type ListOutput struct {
	Tasks  []model.Task
	Total  int
	Limit  int
	Offset int
}

type DetailOutput struct {
	Task model.Task
}

type UpdateOutput struct {
	Task model.Task
}
