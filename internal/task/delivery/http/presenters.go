package http

import (
	"intent-assistant/internal/model"
	"intent-assistant/internal/task"
	"intent-assistant/pkg/response"
)

// --- Request DTOs ---

type createReq struct {
	Title       string   `json:"title"       binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	Category    string   `json:"category"    binding:"max=50"`
	Priority    string   `json:"priority"    binding:"omitempty,oneof=low medium high"`
	DueDate     string   `json:"due_date"`
	Tags        []string `json:"tags"`
}

func (r createReq) toInput() task.CreateInput {
	return task.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
}

// ---

type listReq struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

func (r listReq) toInput() task.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return task.ListInput{
		Status:   r.Status,
		Category: r.Category,
		Limit:    limit,
		Offset:   max(r.Offset, 0),
	}
}

// ---

type updateReq struct {
	ID          string   `json:"-"` // populated from URI param
	Title       string   `json:"title"       binding:"omitempty,min=1,max=200"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Category    string   `json:"category"    binding:"omitempty,max=50"`
	Priority    string   `json:"priority"    binding:"omitempty,oneof=low medium high"`
	Status      string   `json:"status"      binding:"omitempty,oneof=todo in_progress done"`
	DueDate     string   `json:"due_date"`
	Tags        []string `json:"tags"`
}

func (r updateReq) toInput() task.UpdateInput {
	return task.UpdateInput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
}

// --- Response DTOs ---

type taskResp struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	DueDate     string            `json:"due_date,omitempty"`
	Tags        []string          `json:"tags"`
	CreatedAt   response.DateTime `json:"created_at"`
	UpdatedAt   response.DateTime `json:"updated_at"`
}

func newTaskResp(t model.Task) taskResp {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		Tags:        tags,
		CreatedAt:   response.DateTime(t.CreatedAt),
		UpdatedAt:   response.DateTime(t.UpdatedAt),
	}
}

type itemResp struct {
	Task taskResp `json:"task"`
}

type listResp struct {
	Tasks  []taskResp `json:"tasks"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func (h *handler) newListResp(out task.ListOutput) listResp {
	tasks := make([]taskResp, len(out.Tasks))
	for i, t := range out.Tasks {
		tasks[i] = newTaskResp(t)
	}
	return listResp{
		Tasks:  tasks,
		Total:  out.Total,
		Limit:  out.Limit,
		Offset: out.Offset,
	}
}

type categoriesResp struct {
	Categories []string `json:"categories"`
}
