package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type TaskType string

const (
	TaskTypeCall   TaskType = "call"
	TaskTypeEmail  TaskType = "email"
	TaskTypeReview TaskType = "review"
)

// ValidTaskTypes is the closed set accepted by the creation endpoint, in
// the order they appear in error messages.
var ValidTaskTypes = []TaskType{TaskTypeCall, TaskTypeEmail, TaskTypeReview}

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeCall, TaskTypeEmail, TaskTypeReview:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ==================== ENTITIES ====================

// Task is a unit of follow-up work (call/email/review) tied to one parent
// application record. TenantID is always copied from the parent at creation,
// never taken from the request.
type Task struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TenantID    string     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	RelatedID   string     `gorm:"type:uuid;not null;index" json:"related_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Type        TaskType   `gorm:"size:20;not null" json:"type"`
	Status      TaskStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	AssignedTo  *string    `gorm:"type:uuid" json:"assigned_to"`
	DueAt       time.Time  `gorm:"not null;index" json:"due_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Application is the parent record a task refers to. Only id and tenant_id
// are consumed here; the rest of the CRM owns its lifecycle.
type Application struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name     string `gorm:"size:255" json:"name"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
