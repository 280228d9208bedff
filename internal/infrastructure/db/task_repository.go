package db

import (
	"context"
	"time"

	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "related_id", task.RelatedID, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "related_id", task.RelatedID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindDueBetween(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("due_at >= ? AND due_at <= ?", start, end).
		Order("due_at ASC").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_due_between_failed", "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_due_between_ok", "count", len(tasks))
	return tasks, nil
}

// MarkComplete flips the row to completed in a single update and returns
// the fresh row. A second call on the same id converges to the same state.
func (r *taskRepository) MarkComplete(ctx context.Context, id string, completedAt time.Time) (*domain.Task, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       domain.TaskStatusCompleted,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		r.log.Errorw("task_repo_complete_failed", "id", id, "error", res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		r.log.Warnw("task_repo_complete_not_found", "id", id)
		return nil, gorm.ErrRecordNotFound
	}

	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	r.log.Infow("task_repo_complete_ok", "id", id)
	return &task, nil
}
