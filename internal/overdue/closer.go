// Package overdue implements the automatic closing of tasks whose
// deadline has passed, the one piece of time-driven business logic.
package overdue

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// Closer closes overdue tasks in a single unit of work. It is stateless
// between runs and idempotent: a second pass over the same data finds
// nothing left to close.
type Closer struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
	now       func() time.Time
}

// NewCloser creates a Closer. db may be nil for the in-memory backend.
func NewCloser(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) *Closer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Closer{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With("component", "overdue_closer"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the closer's time source. Tests use it to pin "now".
func (c *Closer) SetClock(now func() time.Time) {
	c.now = now
}

// CloseOverdue transitions every task whose deadline lies strictly
// before the start of the current UTC day and whose status is not done
// to done, stamping closed_at with the run time. All changes commit as
// one unit of work. Returns the number of tasks closed.
func (c *Closer) CloseOverdue(ctx context.Context) (int, error) {
	now := c.now()
	// Overdue means "before today", so the reference point is today's
	// midnight UTC, not the current instant.
	ref := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var closed int
	err := store.RunInTransaction(ctx, c.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := c.taskStore.WithTx(tx)

		tasks, err := txTasks.ListOverdue(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to list overdue tasks: %w", err)
		}

		for _, task := range tasks {
			task.Status = domain.TaskStatusDone
			closedAt := now
			task.ClosedAt = &closedAt
			if err := txTasks.Update(ctx, task); err != nil {
				return fmt.Errorf("failed to close task %d: %w", task.ID, err)
			}
		}

		closed = len(tasks)
		return nil
	})
	if err != nil {
		c.logger.Error("overdue close run failed", "error", err)
		return 0, err
	}

	if closed > 0 {
		c.logger.Info("closed overdue tasks", "count", closed)
	} else {
		c.logger.Debug("no overdue tasks found")
	}
	return closed, nil
}
