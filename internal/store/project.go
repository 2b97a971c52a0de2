package store

import (
	"context"
	"database/sql"

	"github.com/mstern/todolist-api/internal/domain"
)

// ProjectStore defines the persistence contract for projects. The
// in-memory and Postgres implementations satisfy the same contract and
// are interchangeable behind this interface.
type ProjectStore interface {
	// Create persists an unpersisted project. On success the caller's
	// entity gains a store-assigned ID and CreatedAt before return.
	// Returns ErrDuplicateName on a case-insensitive name collision.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Project, error)

	// GetByName retrieves a project by case-insensitive name match.
	// Returns ErrProjectNotFound if no project matches.
	GetByName(ctx context.Context, name string) (*domain.Project, error)

	// List returns all projects ordered by creation time ascending.
	List(ctx context.Context) ([]*domain.Project, error)

	// Update persists the full entity. Returns ErrProjectNotFound if the
	// project does not exist and ErrDuplicateName on a name collision.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project by ID. The returned flag reports whether a
	// row existed; deleting twice yields false on the repeat.
	Delete(ctx context.Context, id int64) (bool, error)

	// Count reports the number of live projects.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a ProjectStore bound to the given transaction so
	// multiple operations can share one unit of work. Implementations
	// without transactions return themselves for a nil tx.
	WithTx(tx *sql.Tx) ProjectStore
}
