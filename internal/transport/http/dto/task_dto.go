package dto

import (
	"time"

	"github.com/lumacrm/backend/internal/domain"
)

type CreateTaskRequest struct {
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
}

// CreateTaskResponse is the creation endpoint's sole response shape,
// success or failure.
type CreateTaskResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	RelatedID   string            `json:"related_id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Type        domain.TaskType   `json:"type"`
	Status      domain.TaskStatus `json:"status"`
	AssignedTo  *string           `json:"assigned_to"`
	DueAt       time.Time         `json:"due_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func TaskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		TenantID:    task.TenantID,
		RelatedID:   task.RelatedID,
		Title:       task.Title,
		Description: task.Description,
		Type:        task.Type,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
		DueAt:       task.DueAt,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func TasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, TaskToResponse(&tasks[i]))
	}
	return out
}
