package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/db"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a fresh connection would get its own empty :memory: database
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(gdb))
	return gdb
}

func insertApplication(t *testing.T, gdb *gorm.DB) *domain.Application {
	t.Helper()
	app := &domain.Application{TenantID: uuid.NewString(), Name: "ACME Loan"}
	require.NoError(t, gdb.Create(app).Error)
	return app
}

type fakeCache struct {
	mu            sync.Mutex
	tasks         []domain.Task
	has           bool
	sets          int
	invalidations int
}

func (c *fakeCache) Get(ctx context.Context) ([]domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks, c.has
}

func (c *fakeCache) Set(ctx context.Context, tasks []domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks, c.has = tasks, true
	c.sets++
}

func (c *fakeCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks, c.has = nil, false
	c.invalidations++
}

type capturePublisher struct {
	ch chan domain.TaskCreatedEvent
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{ch: make(chan domain.TaskCreatedEvent, 4)}
}

func (p *capturePublisher) PublishTaskCreated(ctx context.Context, event domain.TaskCreatedEvent) error {
	p.ch <- event
	return nil
}

func (p *capturePublisher) wait(t *testing.T) domain.TaskCreatedEvent {
	t.Helper()
	select {
	case event := <-p.ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no task.created event published")
		return domain.TaskCreatedEvent{}
	}
}

type countingAppRepo struct {
	ports.ApplicationRepository
	calls int
}

func (r *countingAppRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.calls++
	return r.ApplicationRepository.GetByID(ctx, id)
}

type serviceFixture struct {
	gdb       *gorm.DB
	service   ports.TaskService
	cache     *fakeCache
	publisher *capturePublisher
	appRepo   *countingAppRepo
	now       time.Time
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.Nop()
	f := &serviceFixture{
		gdb:       gdb,
		cache:     &fakeCache{},
		publisher: newCapturePublisher(),
		appRepo:   &countingAppRepo{ApplicationRepository: db.NewApplicationRepository(gdb, log)},
		now:       testNow,
	}
	f.service = NewTaskService(TaskServiceConfig{
		TaskRepo:        db.NewTaskRepository(gdb, log),
		ApplicationRepo: f.appRepo,
		Cache:           f.cache,
		Events:          f.publisher,
		Logger:          log,
		Now:             func() time.Time { return f.now },
	})
	return f
}

func (f *serviceFixture) validInput(appID string) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		ApplicationID: appID,
		TaskType:      "call",
		DueAt:         f.now.Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateTaskSuccess(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	input := f.validInput(app.ID)
	input.Description = "follow up on documents"
	task, err := f.service.CreateTask(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, app.TenantID, task.TenantID)
	assert.Equal(t, app.ID, task.RelatedID)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, "Call task for application", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "follow up on documents", *task.Description)

	var stored domain.Task
	require.NoError(t, f.gdb.First(&stored, "id = ?", task.ID).Error)
	assert.Equal(t, domain.TaskTypeCall, stored.Type)

	event := f.publisher.wait(t)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, app.ID, event.ApplicationID)
	assert.Equal(t, "call", event.TaskType)
	// the broadcast echoes the request's due_at string, not a reformat
	assert.Equal(t, input.DueAt, event.DueAt)
}

func TestCreateTaskSuppliedTitleKept(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	input := f.validInput(app.ID)
	input.Title = "Chase signature"
	task, err := f.service.CreateTask(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Chase signature", task.Title)
}

func TestCreateTaskDefaultTitlePerType(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	for taskType, want := range map[string]string{
		"call":   "Call task for application",
		"email":  "Email task for application",
		"review": "Review task for application",
	} {
		input := f.validInput(app.ID)
		input.TaskType = taskType
		task, err := f.service.CreateTask(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, want, task.Title)
	}
}

func TestCreateTaskValidationPipeline(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	cases := []struct {
		name    string
		mutate  func(*ports.CreateTaskInput)
		wantErr error
	}{
		{"missing application_id", func(in *ports.CreateTaskInput) { in.ApplicationID = "" }, ErrTaskMissingApplicationID},
		{"malformed application_id", func(in *ports.CreateTaskInput) { in.ApplicationID = "not-a-uuid" }, ErrTaskInvalidApplicationID},
		{"braced application_id", func(in *ports.CreateTaskInput) { in.ApplicationID = "{" + app.ID[:34] + "}" }, ErrTaskInvalidApplicationID},
		{"missing task_type", func(in *ports.CreateTaskInput) { in.TaskType = "" }, ErrTaskInvalidType},
		{"unknown task_type", func(in *ports.CreateTaskInput) { in.TaskType = "meeting" }, ErrTaskInvalidType},
		{"missing due_at", func(in *ports.CreateTaskInput) { in.DueAt = "" }, ErrTaskMissingDueAt},
		{"unparseable due_at", func(in *ports.CreateTaskInput) { in.DueAt = "tomorrow" }, ErrTaskInvalidDueAt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := f.validInput(app.ID)
			tc.mutate(&input)
			_, err := f.service.CreateTask(context.Background(), input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// no rows slipped through
	var count int64
	require.NoError(t, f.gdb.Model(&domain.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTaskTypeMessageEnumeratesSet(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	input := f.validInput(app.ID)
	input.TaskType = "fax"
	_, err := f.service.CreateTask(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "task_type must be one of: call, email, review", err.Error())
}

func TestCreateTaskDueAtBoundaries(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	input := f.validInput(app.ID)
	input.DueAt = f.now.Format(time.RFC3339)
	_, err := f.service.CreateTask(context.Background(), input)
	assert.ErrorIs(t, err, ErrTaskDueAtNotFuture)

	input.DueAt = f.now.Add(-time.Hour).Format(time.RFC3339)
	_, err = f.service.CreateTask(context.Background(), input)
	assert.ErrorIs(t, err, ErrTaskDueAtNotFuture)

	input.DueAt = f.now.Add(time.Second).Format(time.RFC3339)
	task, err := f.service.CreateTask(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
}

func TestCreateTaskMalformedUUIDSkipsStore(t *testing.T) {
	f := newFixture(t)

	input := f.validInput("00000000-zzzz-0000-0000-000000000000")
	_, err := f.service.CreateTask(context.Background(), input)
	assert.ErrorIs(t, err, ErrTaskInvalidApplicationID)
	assert.Zero(t, f.appRepo.calls)
}

func TestCreateTaskApplicationNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateTask(context.Background(), f.validInput(uuid.NewString()))
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Equal(t, "Application not found", err.Error())

	var count int64
	require.NoError(t, f.gdb.Model(&domain.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTaskMissingStoreIsServerError(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	unconfigured := NewTaskService(TaskServiceConfig{
		Logger: logger.Nop(),
		Now:    func() time.Time { return testNow },
	})
	_, err := unconfigured.CreateTask(context.Background(), f.validInput(app.ID))
	assert.ErrorIs(t, err, ErrServerNotConfigured)
	assert.False(t, IsValidationError(err))
}

func TestTodayTasksWindow(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	start := time.Date(f.now.Year(), f.now.Month(), f.now.Day(), 0, 0, 0, 0, f.now.Location())
	end := start.Add(24*time.Hour - time.Millisecond)

	mkTask := func(title string, due time.Time) {
		require.NoError(t, f.gdb.Create(&domain.Task{
			TenantID:  app.TenantID,
			RelatedID: app.ID,
			Title:     title,
			Type:      domain.TaskTypeCall,
			Status:    domain.TaskStatusPending,
			DueAt:     due,
		}).Error)
	}

	mkTask("at day start", start)
	mkTask("at day end", end)
	mkTask("midday", start.Add(12*time.Hour))
	mkTask("before window", start.Add(-time.Millisecond))
	mkTask("after window", end.Add(time.Millisecond))

	tasks, err := f.service.TodayTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// ascending by due_at, boundaries inclusive
	assert.Equal(t, "at day start", tasks[0].Title)
	assert.Equal(t, "midday", tasks[1].Title)
	assert.Equal(t, "at day end", tasks[2].Title)
}

func TestDayBoundsDSTTransitionDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// spring forward: March 8 2026 has 23 wall-clock hours. The window end
	// must stay on March 8, not run an hour into the next day.
	start, end := dayBounds(time.Date(2026, 3, 8, 10, 0, 0, 0, loc))
	assert.True(t, start.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, 3, 8, 23, 59, 59, int(999*time.Millisecond), loc)))
	assert.Equal(t, 8, end.Day())
	assert.True(t, end.Before(time.Date(2026, 3, 9, 0, 0, 0, 0, loc)))
	assert.Equal(t, 22*time.Hour+59*time.Minute+59*time.Second+999*time.Millisecond, end.Sub(start))

	// fall back: November 1 2026 has 25 wall-clock hours, all inside the window
	start, end = dayBounds(time.Date(2026, 11, 1, 10, 0, 0, 0, loc))
	assert.True(t, end.Equal(time.Date(2026, 11, 1, 23, 59, 59, int(999*time.Millisecond), loc)))
	assert.Equal(t, 24*time.Hour+59*time.Minute+59*time.Second+999*time.Millisecond, end.Sub(start))
}

func TestTodayTasksEmptyIsNotError(t *testing.T) {
	f := newFixture(t)

	tasks, err := f.service.TodayTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Equal(t, 1, f.cache.sets)
}

func TestTodayTasksServedFromCache(t *testing.T) {
	f := newFixture(t)
	f.cache.Set(context.Background(), []domain.Task{{ID: uuid.NewString(), Title: "cached"}})

	tasks, err := f.service.TodayTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "cached", tasks[0].Title)
}

func TestMarkCompleteInvalidationContract(t *testing.T) {
	f := newFixture(t)
	app := insertApplication(t, f.gdb)

	task := &domain.Task{
		TenantID:  app.TenantID,
		RelatedID: app.ID,
		Title:     "due today",
		Type:      domain.TaskTypeEmail,
		Status:    domain.TaskStatusPending,
		DueAt:     f.now.Add(time.Hour),
	}
	require.NoError(t, f.gdb.Create(task).Error)

	first, err := f.service.TodayTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, domain.TaskStatusPending, first[0].Status)

	updated, err := f.service.MarkComplete(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 1, f.cache.invalidations)

	// refetch after invalidation observes the mutation
	second, err := f.service.TodayTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, domain.TaskStatusCompleted, second[0].Status)
}

func TestMarkCompleteUnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.MarkComplete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Zero(t, f.cache.invalidations)
}
