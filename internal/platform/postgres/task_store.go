package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/platform/logger"
	"github.com/mstern/todolist-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction managed by
// the caller. If logger is nil, the default logger is used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx returns a TaskStore bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	if tx == nil {
		return s
	}
	return &TaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create. The INSERT returns the
// server-assigned id and creation time, which are written back into the
// caller's entity before this method returns.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (project_id, title, description, status, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.ProjectID,
		task.Title,
		task.Description,
		string(task.Status),
		task.Deadline,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.Int64("project_id", task.ProjectID))
			return fmt.Errorf("%w: project with ID %d not found",
				store.ErrInvalidEntity, task.ProjectID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("project_id", task.ProjectID))
		return MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("project_id", task.ProjectID),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, title, description, status, deadline, created_at, closed_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// ListByProject implements store.TaskStore.ListByProject.
func (s *TaskStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, deadline, created_at, closed_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return s.queryTasks(ctx, query, projectID)
}

// ListOverdue implements store.TaskStore.ListOverdue.
func (s *TaskStore) ListOverdue(ctx context.Context, ref time.Time) ([]*domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, deadline, created_at, closed_at
		FROM tasks
		WHERE deadline IS NOT NULL
		  AND deadline < $1
		  AND status != $2
		ORDER BY created_at ASC, id ASC
	`
	return s.queryTasks(ctx, query, ref, string(domain.TaskStatusDone))
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, deadline = $4, closed_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		string(task.Status),
		task.Deadline,
		task.ClosedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return true, nil
}

// DeleteByProject implements store.TaskStore.DeleteByProject.
func (s *TaskStore) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = $1`, projectID)
	if err != nil {
		log.Error("failed to delete tasks for project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info("tasks deleted for project",
			slog.Int64("project_id", projectID),
			slog.Int64("count", rowsAffected))
	}
	return rowsAffected, nil
}

// Count implements store.TaskStore.Count.
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// queryTasks runs a multi-row task query and scans the results.
func (s *TaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one task row in the canonical column order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	var deadline, closedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&status,
		&deadline,
		&task.CreatedAt,
		&closedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		task.ClosedAt = &t
	}
	return &task, nil
}
