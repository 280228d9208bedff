package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/core/services"
	"github.com/lumacrm/backend/internal/infrastructure/db"
	"github.com/lumacrm/backend/internal/infrastructure/events"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"github.com/lumacrm/backend/internal/transport/http/handlers"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Cache  ports.TodayTasksCache
	Events *events.Client
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	applicationRepo := db.NewApplicationRepository(cfg.DB, cfg.Logger)

	var publisher ports.EventPublisher
	if cfg.Events != nil {
		publisher = cfg.Events
	}

	taskService := services.NewTaskService(services.TaskServiceConfig{
		TaskRepo:        taskRepo,
		ApplicationRepo: applicationRepo,
		Cache:           cfg.Cache,
		Events:          publisher,
		Logger:          cfg.Logger,
	})

	taskHandler := handlers.NewTaskHandler(taskService, cfg.Logger)

	api := app.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/today", taskHandler.GetTodayTasks)
	tasks.Post("/:id/complete", taskHandler.MarkComplete)

	if cfg.Events != nil {
		realtimeHandler := handlers.NewRealtimeHandler(cfg.Events, cfg.Logger)

		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws/tasks", websocket.New(realtimeHandler.Handle))
	}
}
