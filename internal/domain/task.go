package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// DeadlineLayout is the only accepted textual form for task deadlines,
// an ISO calendar date with no time component.
const DeadlineLayout = "2006-01-02"

// Task is a unit of work belonging to exactly one project. ID and
// CreatedAt are assigned by the store on creation; ProjectID is immutable
// after creation (a task cannot be moved between projects). ClosedAt is
// set only by the overdue closer, never by ordinary edits.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// NewTask creates an unpersisted Task under the given project. Title and
// description are stored trimmed; status defaults to todo when empty.
// The store assigns identity and creation time.
func NewTask(projectID int64, title, description string, status TaskStatus, deadline *time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if err := CheckWordCount("title", title, NameMaxWords); err != nil {
		return nil, err
	}
	if err := CheckWordCount("description", description, DescriptionMaxWords); err != nil {
		return nil, err
	}

	if status == "" {
		status = TaskStatusTodo
	}
	if !status.Valid() {
		return nil, NewValidationError("status", "must be one of todo, doing, done")
	}

	return &Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		Deadline:    deadline,
	}, nil
}

// Valid reports whether s is a member of the three-value status set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ParseTaskStatus normalizes raw to a lowercase-trimmed status and
// validates it against the status set.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of todo, doing, done")
	}
	return status, nil
}

// ParseDeadline parses raw strictly as an ISO calendar date (YYYY-MM-DD)
// in UTC. Anything else is a ValidationError.
func ParseDeadline(raw string) (time.Time, error) {
	deadline, err := time.ParseInLocation(DeadlineLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, NewValidationError("deadline", "must be a date in YYYY-MM-DD format")
	}
	return deadline, nil
}

// Overdue reports whether the task has a deadline strictly before ref and
// is not already done. The caller supplies ref as the start of the
// current calendar day for day-granularity comparison.
func (t *Task) Overdue(ref time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(ref) && t.Status != TaskStatusDone
}
