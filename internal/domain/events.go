package domain

// EventTaskCreated is broadcast on the tasks channel after a successful
// insert. Delivery is best effort; consumers must not rely on it for
// consistency.
const EventTaskCreated = "task.created"

// TaskChannel is the logical channel all task events are published on.
const TaskChannel = "tasks"

type TaskCreatedEvent struct {
	TaskID        string `json:"task_id"`
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
}

// NewTaskCreatedEvent builds the broadcast payload for a stored task. dueAt
// is the validated due_at string from the create request, echoed verbatim so
// subscribers see exactly what the caller sent.
func NewTaskCreatedEvent(t *Task, dueAt string) TaskCreatedEvent {
	return TaskCreatedEvent{
		TaskID:        t.ID,
		ApplicationID: t.RelatedID,
		TaskType:      string(t.Type),
		DueAt:         dueAt,
	}
}
