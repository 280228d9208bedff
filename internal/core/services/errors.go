package services

import "errors"

// Task creation errors. Messages are part of the API contract: the handler
// returns them verbatim to the client, so they match the strings web
// clients already display.
var (
	ErrTaskMissingApplicationID = errors.New("application_id is required")
	ErrTaskInvalidApplicationID = errors.New("application_id must be a valid UUID")
	ErrTaskInvalidType          = errors.New("task_type must be one of: call, email, review")
	ErrTaskMissingDueAt         = errors.New("due_at is required")
	ErrTaskInvalidDueAt         = errors.New("due_at must be a valid ISO 8601 date string")
	ErrTaskDueAtNotFuture       = errors.New("due_at must be in the future")
)

// Referential errors. Application-not-found is intentionally a client
// error with a generic message, indistinguishable from validation failures.
var (
	ErrApplicationNotFound = errors.New("Application not found")
	ErrTaskNotFound        = errors.New("task not found")
)

// Infrastructure errors.
var (
	ErrServerNotConfigured = errors.New("Server configuration error")
)

// IsValidationError reports whether err belongs to the request-validation
// class (caller-fixable, no side effects).
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrTaskMissingApplicationID),
		errors.Is(err, ErrTaskInvalidApplicationID),
		errors.Is(err, ErrTaskInvalidType),
		errors.Is(err, ErrTaskMissingDueAt),
		errors.Is(err, ErrTaskInvalidDueAt),
		errors.Is(err, ErrTaskDueAtNotFuture):
		return true
	}
	return false
}
