package ports

import (
	"context"

	"github.com/lumacrm/backend/internal/domain"
)

// CreateTaskInput carries the raw creation request. DueAt stays a string
// until the validation pipeline parses it, so a malformed value produces
// the pipeline's own error instead of a decode failure.
type CreateTaskInput struct {
	ApplicationID string
	TaskType      string
	DueAt         string
	Title         string
	Description   string
}

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	TodayTasks(ctx context.Context) ([]domain.Task, error)
	MarkComplete(ctx context.Context, id string) (*domain.Task, error)
}

// EventPublisher broadcasts task lifecycle events. Publish failures are the
// caller's to log; they never roll back the triggering operation.
type EventPublisher interface {
	PublishTaskCreated(ctx context.Context, event domain.TaskCreatedEvent) error
}

// TodayTasksCache holds the single logical cached result of the today query.
// Implementations swallow transport errors: a broken cache degrades to
// store reads, it never fails them.
type TodayTasksCache interface {
	Get(ctx context.Context) ([]domain.Task, bool)
	Set(ctx context.Context, tasks []domain.Task)
	Invalidate(ctx context.Context)
}
