package dto

import (
	"strings"

	"github.com/lumacrm/backend/internal/domain"
)

// TaskRow is the presentation contract for one line of the tasks table:
// badge categories, a truncated parent reference, a display-formatted due
// date and the state of the mark-complete control.
type TaskRow struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Type           string `json:"type"`
	TypeBadge      string `json:"type_badge"`
	RelatedRef     string `json:"related_ref"`
	DueLabel       string `json:"due_label"`
	StatusLabel    string `json:"status_label"`
	StatusBadge    string `json:"status_badge"`
	ActionLabel    string `json:"action_label"`
	ActionDisabled bool   `json:"action_disabled"`
}

const dueLabelLayout = "Jan 2, 2006 3:04 PM"

// NewTaskRow builds the row view. inFlight reflects a mark-complete call
// the client currently has outstanding; it disables the control and swaps
// its label, distinct from the steady completed state.
func NewTaskRow(task *domain.Task, inFlight bool) TaskRow {
	completed := task.Status == domain.TaskStatusCompleted

	label := "Mark Complete"
	switch {
	case inFlight:
		label = "Updating..."
	case completed:
		label = "Completed"
	}

	return TaskRow{
		ID:             task.ID,
		Title:          task.Title,
		Type:           string(task.Type),
		TypeBadge:      typeBadge(task.Type),
		RelatedRef:     truncateRef(task.RelatedID),
		DueLabel:       task.DueAt.Format(dueLabelLayout),
		StatusLabel:    strings.ReplaceAll(string(task.Status), "_", " "),
		StatusBadge:    statusBadge(task.Status),
		ActionLabel:    label,
		ActionDisabled: completed || inFlight,
	}
}

// TasksToRows builds the table view. inFlightID names the task whose
// mark-complete call is currently outstanding; only that row renders in the
// in-flight state, the rest stay interactive.
func TasksToRows(tasks []domain.Task, inFlightID string) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for i := range tasks {
		inFlight := inFlightID != "" && tasks[i].ID == inFlightID
		rows = append(rows, NewTaskRow(&tasks[i], inFlight))
	}
	return rows
}

func typeBadge(t domain.TaskType) string {
	switch t {
	case domain.TaskTypeCall:
		return "purple"
	case domain.TaskTypeEmail:
		return "blue"
	case domain.TaskTypeReview:
		return "orange"
	default:
		return "gray"
	}
}

func statusBadge(s domain.TaskStatus) string {
	switch s {
	case domain.TaskStatusPending:
		return "yellow"
	case domain.TaskStatusInProgress:
		return "blue"
	case domain.TaskStatusCompleted:
		return "green"
	case domain.TaskStatusCancelled:
		return "gray"
	default:
		return "gray"
	}
}

func truncateRef(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
