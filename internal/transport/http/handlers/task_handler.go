package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lumacrm/backend/internal/core/ports"
	"github.com/lumacrm/backend/internal/core/services"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"github.com/lumacrm/backend/internal/transport/http/dto"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// CreateTask handles the validated creation path. Panics are converted to a
// generic client error so the handler never takes the process down with it.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("task_create_panic", "panic", r)
			err = c.Status(fiber.StatusBadRequest).JSON(dto.CreateTaskResponse{
				Success: false,
				Error:   "Internal server error",
			})
		}
	}()

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTaskResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	h.logger.Infow("task_create_request", "application_id", req.ApplicationID, "task_type", req.TaskType)
	task, err := h.service.CreateTask(c.Context(), ports.CreateTaskInput{
		ApplicationID: req.ApplicationID,
		TaskType:      req.TaskType,
		DueAt:         req.DueAt,
		Title:         req.Title,
		Description:   req.Description,
	})
	if err != nil {
		return h.creationFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.CreateTaskResponse{
		Success: true,
		TaskID:  task.ID,
	})
}

// creationFailure is the single response-formatting step for every
// creation pipeline failure. A missing store dependency is the only server
// error; everything else, parent-not-found included, is a 400.
func (h *TaskHandler) creationFailure(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, services.ErrServerNotConfigured) {
		status = fiber.StatusInternalServerError
		h.logger.Errorw("task_create_not_configured")
	} else {
		h.logger.Warnw("task_create_rejected", "error", err)
	}
	return c.Status(status).JSON(dto.CreateTaskResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// GetTodayTasks returns tasks due within the current local day. With
// ?view=table the response is presentation rows instead of raw tasks;
// ?marking=<task_id> names a task whose mark-complete call the client has
// outstanding, so that row renders disabled with an updating label.
func (h *TaskHandler) GetTodayTasks(c *fiber.Ctx) error {
	tasks, err := h.service.TodayTasks(c.Context())
	if err != nil {
		h.logger.Errorw("tasks_today_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("tasks_today_success", "count", len(tasks))
	if c.Query("view") == "table" {
		return c.JSON(dto.TasksToRows(tasks, c.Query("marking")))
	}
	return c.JSON(dto.TasksToResponse(tasks))
}

func (h *TaskHandler) MarkComplete(c *fiber.Ctx) error {
	id := c.Params("id")

	task, err := h.service.MarkComplete(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.logger.Warnw("task_complete_not_found", "id", id)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("task_complete_failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(dto.TaskToResponse(task))
}
