package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain error taxonomy. Each typed error below
// matches its sentinel via errors.Is, so callers can branch on kind
// without inspecting messages.
var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrProjectNotFound is matched by every ProjectNotFoundError.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is matched by every TaskNotFoundError.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectLimitReached is matched by every ProjectLimitError.
	ErrProjectLimitReached = errors.New("project limit reached")

	// ErrTaskLimitReached is matched by every TaskLimitError.
	ErrTaskLimitReached = errors.New("task limit reached")

	// ErrDuplicateProjectName is matched by every DuplicateProjectNameError.
	ErrDuplicateProjectName = errors.New("duplicate project name")
)

// ValidationError reports malformed input: an oversized name/title/
// description, an invalid status value, an unparseable deadline, an empty
// required field after trimming, an ownership mismatch between a task and
// the project it was addressed through, or an update with no fields set.
type ValidationError struct {
	// Field is the offending input field, when one can be named.
	Field string
	// Reason is a human-readable description of the failure.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ProjectNotFoundError reports that no project exists with the given ID.
type ProjectNotFoundError struct {
	ID int64
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project %d not found", e.ID)
}

func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}

// TaskNotFoundError reports that no task exists with the given ID.
type TaskNotFoundError struct {
	ID int64
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// ProjectLimitError reports that the configured maximum number of live
// projects has been reached and no further projects may be created.
type ProjectLimitError struct {
	Limit int
}

func (e *ProjectLimitError) Error() string {
	return fmt.Sprintf("project limit of %d reached", e.Limit)
}

func (e *ProjectLimitError) Is(target error) bool {
	return target == ErrProjectLimitReached
}

// TaskLimitError reports that the configured maximum number of live tasks
// has been reached and no further tasks may be created.
type TaskLimitError struct {
	Limit int
}

func (e *TaskLimitError) Error() string {
	return fmt.Sprintf("task limit of %d reached", e.Limit)
}

func (e *TaskLimitError) Is(target error) bool {
	return target == ErrTaskLimitReached
}

// DuplicateProjectNameError reports a case-insensitive project name
// collision on create or rename.
type DuplicateProjectNameError struct {
	Name string
}

func (e *DuplicateProjectNameError) Error() string {
	return fmt.Sprintf("project name %q is already in use", e.Name)
}

func (e *DuplicateProjectNameError) Is(target error) bool {
	return target == ErrDuplicateProjectName
}
