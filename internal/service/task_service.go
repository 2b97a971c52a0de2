package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// TaskCreate carries the inputs of a task creation. Status and Deadline
// are optional; Deadline is textual and parsed strictly as YYYY-MM-DD.
type TaskCreate struct {
	Title       string
	Description string
	Status      *string
	Deadline    *string
}

// TaskUpdate carries the optional fields of a partial task update. A nil
// pointer means the field was not supplied and keeps its prior value.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    *string
}

// TaskService provides project-scoped task operations.
type TaskService interface {
	// CreateTask creates a task under an existing project.
	CreateTask(ctx context.Context, projectID int64, in TaskCreate) (*domain.Task, error)

	// GetTaskForProject retrieves a task addressed through its project.
	// A task that exists under a different project is a validation
	// failure, distinct from not-found.
	GetTaskForProject(ctx context.Context, projectID, taskID int64) (*domain.Task, error)

	// ListTasksForProject returns all tasks of an existing project,
	// ordered by creation time.
	ListTasksForProject(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// SetTaskStatus transitions a task to the given status.
	SetTaskStatus(ctx context.Context, taskID int64, status string) (*domain.Task, error)

	// UpdateTask applies a partial update to a task.
	UpdateTask(ctx context.Context, taskID int64, update TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task addressed through its project.
	DeleteTask(ctx context.Context, projectID, taskID int64) error
}

// taskService implements the TaskService interface.
type taskService struct {
	taskStore    store.TaskStore
	projectStore store.ProjectStore
	db           *sql.DB
	maxTasks     int
	logger       *slog.Logger
}

// NewTaskService creates a TaskService enforcing the given live task
// limit. db may be nil when the stores have no transaction manager (the
// in-memory backend).
func NewTaskService(
	taskStore store.TaskStore,
	projectStore store.ProjectStore,
	db *sql.DB,
	maxTasks int,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		taskStore:    taskStore,
		projectStore: projectStore,
		db:           db,
		maxTasks:     maxTasks,
		logger:       logger.With("component", "task_service"),
	}
}

// CreateTask validates, in order: project existence, the live task
// limit, title and description word counts, the status value, and the
// deadline format. Title and description are stored trimmed.
func (s *taskService) CreateTask(ctx context.Context, projectID int64, in TaskCreate) (*domain.Task, error) {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		txProjects := s.projectStore.WithTx(tx)

		if _, err := txProjects.GetByID(ctx, projectID); err != nil {
			if errors.Is(err, store.ErrProjectNotFound) {
				return &domain.ProjectNotFoundError{ID: projectID}
			}
			return fmt.Errorf("failed to check project existence: %w", err)
		}

		count, err := txTasks.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		if count >= int64(s.maxTasks) {
			return &domain.TaskLimitError{Limit: s.maxTasks}
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			return domain.NewValidationError("title", "must not be empty")
		}
		if err := domain.CheckWordCount("title", title, domain.NameMaxWords); err != nil {
			return err
		}
		if err := domain.CheckWordCount("description", strings.TrimSpace(in.Description), domain.DescriptionMaxWords); err != nil {
			return err
		}

		var status domain.TaskStatus
		if in.Status != nil {
			status, err = domain.ParseTaskStatus(*in.Status)
			if err != nil {
				return err
			}
		}

		var deadline *time.Time
		if in.Deadline != nil {
			parsed, err := domain.ParseDeadline(*in.Deadline)
			if err != nil {
				return err
			}
			deadline = &parsed
		}

		task, err = domain.NewTask(projectID, in.Title, in.Description, status, deadline)
		if err != nil {
			return err
		}

		if err := txTasks.Create(ctx, task); err != nil {
			if errors.Is(err, store.ErrInvalidEntity) {
				return &domain.ProjectNotFoundError{ID: projectID}
			}
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"project_id", projectID,
		"status", string(task.Status))
	return task, nil
}

// GetTaskForProject retrieves a task and verifies it belongs to the
// addressed project. An ownership mismatch distinguishes "exists
// elsewhere" from "doesn't exist", which matters for nested URLs.
func (s *taskService) GetTaskForProject(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, &domain.TaskNotFoundError{ID: taskID}
		}
		s.logger.Error("failed to retrieve task",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if task.ProjectID != projectID {
		return nil, domain.NewValidationError("project_id",
			fmt.Sprintf("task %d does not belong to project %d", taskID, projectID))
	}
	return task, nil
}

// ListTasksForProject returns all tasks for an existing project.
func (s *taskService) ListTasksForProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	if _, err := s.projectStore.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil, &domain.ProjectNotFoundError{ID: projectID}
		}
		return nil, fmt.Errorf("failed to check project existence: %w", err)
	}

	tasks, err := s.taskStore.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"project_id", projectID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SetTaskStatus transitions a task to the given status. A manual
// transition to done deliberately leaves ClosedAt untouched; only the
// overdue closer stamps it.
func (s *taskService) SetTaskStatus(ctx context.Context, taskID int64, status string) (*domain.Task, error) {
	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	var task *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		var err error
		task, err = txTasks.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return &domain.TaskNotFoundError{ID: taskID}
			}
			return fmt.Errorf("failed to retrieve task for status change: %w", err)
		}

		task.Status = parsed
		if err := txTasks.Update(ctx, task); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return &domain.TaskNotFoundError{ID: taskID}
			}
			return fmt.Errorf("failed to update task status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task status changed",
		"task_id", taskID,
		"status", string(parsed))
	return task, nil
}

// UpdateTask applies the supplied fields only, validating each with the
// same rules as create. An update with no fields set is a validation
// failure.
func (s *taskService) UpdateTask(ctx context.Context, taskID int64, update TaskUpdate) (*domain.Task, error) {
	if update.Title == nil && update.Description == nil && update.Status == nil && update.Deadline == nil {
		return nil, domain.NewValidationError("", "at least one field must be supplied")
	}

	var title, description string
	if update.Title != nil {
		title = strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, domain.NewValidationError("title", "must not be empty")
		}
		if err := domain.CheckWordCount("title", title, domain.NameMaxWords); err != nil {
			return nil, err
		}
	}
	if update.Description != nil {
		description = strings.TrimSpace(*update.Description)
		if err := domain.CheckWordCount("description", description, domain.DescriptionMaxWords); err != nil {
			return nil, err
		}
	}

	var status domain.TaskStatus
	if update.Status != nil {
		var err error
		status, err = domain.ParseTaskStatus(*update.Status)
		if err != nil {
			return nil, err
		}
	}

	var deadline *time.Time
	if update.Deadline != nil {
		parsed, err := domain.ParseDeadline(*update.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = &parsed
	}

	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		var err error
		task, err = txTasks.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return &domain.TaskNotFoundError{ID: taskID}
			}
			return fmt.Errorf("failed to retrieve task for update: %w", err)
		}

		if update.Title != nil {
			task.Title = title
		}
		if update.Description != nil {
			task.Description = description
		}
		if update.Status != nil {
			task.Status = status
		}
		if update.Deadline != nil {
			task.Deadline = deadline
		}

		if err := txTasks.Update(ctx, task); err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return &domain.TaskNotFoundError{ID: taskID}
			}
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "task_id", taskID)
	return task, nil
}

// DeleteTask removes a task addressed through its project. An ownership
// mismatch is a validation failure and leaves the task in place.
func (s *taskService) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)

		task, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return &domain.TaskNotFoundError{ID: taskID}
			}
			return fmt.Errorf("failed to retrieve task for delete: %w", err)
		}
		if task.ProjectID != projectID {
			return domain.NewValidationError("project_id",
				fmt.Sprintf("task %d does not belong to project %d", taskID, projectID))
		}

		deleted, err := txTasks.Delete(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if !deleted {
			return &domain.TaskNotFoundError{ID: taskID}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"project_id", projectID)
	return nil
}
