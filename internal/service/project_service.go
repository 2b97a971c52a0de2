package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// CascadeFn deletes all tasks of a project within the given transaction.
// The composition root injects one backed by the task store, which keeps
// ProjectService ignorant of tasks while preserving the cascade contract.
type CascadeFn func(ctx context.Context, tx *sql.Tx, projectID int64) error

// ProjectUpdate carries the optional fields of a partial project update.
// A nil pointer means the field was not supplied and keeps its prior
// value.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// ProjectService provides project-related operations.
type ProjectService interface {
	// CreateProject creates a project with a unique name and optional
	// description.
	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)

	// GetProject retrieves a project by its ID.
	GetProject(ctx context.Context, id int64) (*domain.Project, error)

	// ListProjects returns all projects ordered by creation time.
	ListProjects(ctx context.Context) ([]*domain.Project, error)

	// UpdateProject applies a partial update to a project.
	UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*domain.Project, error)

	// DeleteProject removes a project and cascades to its tasks.
	DeleteProject(ctx context.Context, id int64) error
}

// projectService implements the ProjectService interface.
type projectService struct {
	projectStore store.ProjectStore
	db           *sql.DB
	maxProjects  int
	cascade      CascadeFn
	logger       *slog.Logger
}

// NewProjectService creates a ProjectService enforcing the given live
// project limit. db may be nil when the store has no transaction manager
// (the in-memory backend). cascade may be nil when no task cleanup is
// needed; when set it runs inside the delete transaction before the
// project row is removed.
func NewProjectService(
	projectStore store.ProjectStore,
	db *sql.DB,
	maxProjects int,
	cascade CascadeFn,
	logger *slog.Logger,
) ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &projectService{
		projectStore: projectStore,
		db:           db,
		maxProjects:  maxProjects,
		cascade:      cascade,
		logger:       logger.With("component", "project_service"),
	}
}

// CreateProject validates, in order: name word count, description word
// count, the live project limit, and the case-insensitive name collision.
// On success the stored entity carries its server-assigned identity.
func (s *projectService) CreateProject(ctx context.Context, name, description string) (*domain.Project, error) {
	project, err := domain.NewProject(name, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.projectStore.WithTx(tx)

		count, err := txStore.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		if count >= int64(s.maxProjects) {
			return &domain.ProjectLimitError{Limit: s.maxProjects}
		}

		if _, err := txStore.GetByName(ctx, project.Name); err == nil {
			return &domain.DuplicateProjectNameError{Name: project.Name}
		} else if !errors.Is(err, store.ErrProjectNotFound) {
			return fmt.Errorf("failed to check name uniqueness: %w", err)
		}

		if err := txStore.Create(ctx, project); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				return &domain.DuplicateProjectNameError{Name: project.Name}
			}
			return fmt.Errorf("failed to create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"project_id", project.ID,
		"name", project.Name)
	return project, nil
}

// GetProject retrieves a project by its ID.
func (s *projectService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projectStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil, &domain.ProjectNotFoundError{ID: id}
		}
		s.logger.Error("failed to retrieve project",
			"error", err,
			"project_id", id)
		return nil, fmt.Errorf("failed to retrieve project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects ordered by creation time ascending.
func (s *projectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.projectStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies the supplied fields only. An update with neither
// field set is a validation failure. A supplied name is trimmed, sized,
// and checked for collisions against other projects (self-match allowed).
func (s *projectService) UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*domain.Project, error) {
	if update.Name == nil && update.Description == nil {
		return nil, domain.NewValidationError("", "at least one field must be supplied")
	}

	var name, description string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "must not be empty")
		}
		if err := domain.CheckWordCount("name", name, domain.NameMaxWords); err != nil {
			return nil, err
		}
	}
	if update.Description != nil {
		description = strings.TrimSpace(*update.Description)
		if err := domain.CheckWordCount("description", description, domain.DescriptionMaxWords); err != nil {
			return nil, err
		}
	}

	var updated *domain.Project
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.projectStore.WithTx(tx)

		project, err := txStore.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrProjectNotFound) {
				return &domain.ProjectNotFoundError{ID: id}
			}
			return fmt.Errorf("failed to retrieve project for update: %w", err)
		}

		if update.Name != nil {
			existing, err := txStore.GetByName(ctx, name)
			if err == nil && existing.ID != id {
				return &domain.DuplicateProjectNameError{Name: name}
			}
			if err != nil && !errors.Is(err, store.ErrProjectNotFound) {
				return fmt.Errorf("failed to check name uniqueness: %w", err)
			}
			project.Name = name
		}
		if update.Description != nil {
			project.Description = description
		}

		if err := txStore.Update(ctx, project); err != nil {
			if errors.Is(err, store.ErrDuplicateName) {
				return &domain.DuplicateProjectNameError{Name: project.Name}
			}
			if errors.Is(err, store.ErrProjectNotFound) {
				return &domain.ProjectNotFoundError{ID: id}
			}
			return fmt.Errorf("failed to update project: %w", err)
		}

		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "project_id", id)
	return updated, nil
}

// DeleteProject removes a project after running the cascade hook inside
// the same unit of work, so either all tasks and the project are removed
// or none are.
func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.projectStore.WithTx(tx)

		if _, err := txStore.GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrProjectNotFound) {
				return &domain.ProjectNotFoundError{ID: id}
			}
			return fmt.Errorf("failed to retrieve project for delete: %w", err)
		}

		if s.cascade != nil {
			if err := s.cascade(ctx, tx, id); err != nil {
				return fmt.Errorf("failed to cascade delete tasks: %w", err)
			}
		}

		deleted, err := txStore.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		if !deleted {
			return &domain.ProjectNotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", "project_id", id)
	return nil
}
