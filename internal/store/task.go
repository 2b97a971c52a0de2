package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
)

// TaskStore defines the persistence contract for tasks.
type TaskStore interface {
	// Create persists an unpersisted task. On success the caller's entity
	// gains a store-assigned ID and CreatedAt before return. Returns
	// ErrInvalidEntity if the referenced project does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByProject returns all tasks for a project ordered by creation
	// time ascending.
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// ListOverdue returns tasks whose deadline is set and strictly before
	// ref and whose status is not done.
	ListOverdue(ctx context.Context, ref time.Time) ([]*domain.Task, error)

	// Update persists the full entity. Returns ErrTaskNotFound if the
	// task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID. The returned flag reports whether a
	// row existed; deleting twice yields false on the repeat.
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteByProject removes all tasks owned by a project and reports
	// how many were removed. Used by the project cascade delete.
	DeleteByProject(ctx context.Context, projectID int64) (int64, error)

	// Count reports the number of live tasks across all projects.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a TaskStore bound to the given transaction.
	// Implementations without transactions return themselves for a nil tx.
	WithTx(tx *sql.Tx) TaskStore
}
