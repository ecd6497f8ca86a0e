package task

import (
	"context"

	"intent-assistant/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Task CRUD
	Create(ctx context.Context, input CreateInput) (CreateOutput, error)
	List(ctx context.Context, input ListInput) (ListOutput, error)
	Detail(ctx context.Context, id string) (DetailOutput, error)
	Update(ctx context.Context, input UpdateInput) (UpdateOutput, error)
	Delete(ctx context.Context, id string) error

	// Lookups used as conversation context
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, input SearchInput) ([]model.Task, error)
	RecentActivity(ctx context.Context, input ActivityInput) ([]model.Activity, error)
}
