package ports

import (
	"context"
	"time"

	"github.com/lumacrm/backend/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	FindDueBetween(ctx context.Context, start, end time.Time) ([]domain.Task, error)
	MarkComplete(ctx context.Context, id string, completedAt time.Time) (*domain.Task, error)
}

type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Application, error)
}
