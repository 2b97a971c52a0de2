package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/platform/logger"
	"github.com/mstern/todolist-api/internal/store"
)

// ProjectStore implements the store.ProjectStore interface using a
// PostgreSQL database as the storage backend.
type ProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProjectStore creates a PostgreSQL implementation of the
// ProjectStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, the default logger is used.
func NewProjectStore(db store.DBTX, logger *slog.Logger) *ProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure ProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*ProjectStore)(nil)

// WithTx returns a ProjectStore bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (s *ProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	if tx == nil {
		return s
	}
	return &ProjectStore{db: tx, logger: s.logger}
}

// Create implements store.ProjectStore.Create. The INSERT returns the
// server-assigned id and creation time, which are written back into the
// caller's entity before this method returns.
func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO projects (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, project.Name, project.Description).
		Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate project name on create",
				slog.String("name", project.Name))
			return fmt.Errorf("%w: %v", store.ErrDuplicateName, err)
		}
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("name", project.Name))
		return MapError(err)
	}

	log.Info("project created",
		slog.Int64("project_id", project.ID),
		slog.String("name", project.Name))
	return nil
}

// GetByID implements store.ProjectStore.GetByID.
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, created_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.Int64("project_id", id))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return nil, MapError(err)
	}

	return &project, nil
}

// GetByName implements store.ProjectStore.GetByName. The match is
// case-insensitive, backed by the unique index on lower(name).
func (s *ProjectStore) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, created_at
		FROM projects
		WHERE lower(name) = lower($1)
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, MapError(err)
	}

	return &project, nil
}

// List implements store.ProjectStore.List.
func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, created_at
		FROM projects
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects := []*domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
		); err != nil {
			log.Error("failed to scan project row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return projects, nil
}

// Update implements store.ProjectStore.Update.
func (s *ProjectStore) Update(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE projects
		SET name = $1, description = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, project.Name, project.Description, project.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate project name on update",
				slog.Int64("project_id", project.ID),
				slog.String("name", project.Name))
			return fmt.Errorf("%w: %v", store.ErrDuplicateName, err)
		}
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", project.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "project"); err != nil {
		return store.ErrProjectNotFound
	}

	log.Info("project updated", slog.Int64("project_id", project.ID))
	return nil
}

// Delete implements store.ProjectStore.Delete. The tasks table declares
// ON DELETE CASCADE, but the service removes tasks explicitly inside the
// same transaction so both backends share one cascade contract.
func (s *ProjectStore) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	log.Info("project deleted", slog.Int64("project_id", id))
	return true, nil
}

// Count implements store.ProjectStore.Count.
func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}
