package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskService struct {
	tasks        ports.TaskRepository
	applications ports.ApplicationRepository
	cache        ports.TodayTasksCache
	events       ports.EventPublisher
	logger       *logger.Logger
	now          func() time.Time
}

type TaskServiceConfig struct {
	TaskRepo        ports.TaskRepository
	ApplicationRepo ports.ApplicationRepository
	Cache           ports.TodayTasksCache
	Events          ports.EventPublisher
	Logger          *logger.Logger
	Now             func() time.Time
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &taskService{
		tasks:        cfg.TaskRepo,
		applications: cfg.ApplicationRepo,
		cache:        cfg.Cache,
		events:       cfg.Events,
		logger:       cfg.Logger,
		now:          now,
	}
}

// CreateTask runs the ordered validation pipeline and inserts the task.
// Checks run fail-fast in a fixed order; no store access happens until the
// request itself is valid.
func (s *taskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if input.ApplicationID == "" {
		return nil, ErrTaskMissingApplicationID
	}
	if !isCanonicalUUID(input.ApplicationID) {
		return nil, ErrTaskInvalidApplicationID
	}
	if !domain.TaskType(input.TaskType).Valid() {
		return nil, ErrTaskInvalidType
	}
	if input.DueAt == "" {
		return nil, ErrTaskMissingDueAt
	}
	dueAt, err := time.Parse(time.RFC3339, input.DueAt)
	if err != nil {
		return nil, ErrTaskInvalidDueAt
	}
	if !dueAt.After(s.now()) {
		return nil, ErrTaskDueAtNotFuture
	}

	if s.tasks == nil || s.applications == nil {
		return nil, ErrServerNotConfigured
	}

	app, err := s.applications.GetByID(ctx, input.ApplicationID)
	if err != nil || app == nil {
		s.logger.Warnw("task_create_application_missing", "application_id", input.ApplicationID)
		return nil, ErrApplicationNotFound
	}

	title := input.Title
	if title == "" {
		title = defaultTitle(domain.TaskType(input.TaskType))
	}

	task := &domain.Task{
		TenantID:  app.TenantID,
		RelatedID: input.ApplicationID,
		Title:     title,
		Type:      domain.TaskType(input.TaskType),
		Status:    domain.TaskStatusPending,
		DueAt:     dueAt,
	}
	if input.Description != "" {
		task.Description = &input.Description
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("task_created", "task_id", task.ID, "application_id", task.RelatedID, "type", task.Type)
	s.publishTaskCreated(task, input.DueAt)

	return task, nil
}

// TodayTasks returns tasks due within the current local day, ordered by
// due_at ascending. The cached result is served when present; an empty day
// is an empty slice, not an error.
func (s *taskService) TodayTasks(ctx context.Context) ([]domain.Task, error) {
	if s.cache != nil {
		if tasks, ok := s.cache.Get(ctx); ok {
			return tasks, nil
		}
	}

	start, end := dayBounds(s.now())
	tasks, err := s.tasks.FindDueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, tasks)
	}
	return tasks, nil
}

// MarkComplete transitions the task to completed and stamps completed_at.
// The today cache is invalidated only after the store confirms the update,
// so a refetch always observes a state at or after the mutation.
func (s *taskService) MarkComplete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.MarkComplete(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.logger.Infow("task_completed", "task_id", task.ID)
	return task, nil
}

func (s *taskService) publishTaskCreated(task *domain.Task, dueAt string) {
	if s.events == nil {
		return
	}
	event := domain.NewTaskCreatedEvent(task, dueAt)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.PublishTaskCreated(ctx, event); err != nil {
			s.logger.Warnw("task_created_publish_failed", "task_id", event.TaskID, "error", err)
		}
	}()
}

// isCanonicalUUID accepts only the hyphenated 8-4-4-4-12 form. uuid.Parse
// alone also takes URN and braced variants, hence the length check.
func isCanonicalUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

func defaultTitle(t domain.TaskType) string {
	name := string(t)
	return fmt.Sprintf("%s%s task for application", strings.ToUpper(name[:1]), name[1:])
}

// dayBounds returns the inclusive [00:00:00.000, 23:59:59.999] window of
// the local day containing now. Both ends are pinned to the calendar clock,
// not elapsed duration, so DST-transition days keep their 23- or 25-hour
// span instead of spilling into a neighboring day.
func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}
