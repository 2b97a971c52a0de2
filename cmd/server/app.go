package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mstern/todolist-api/internal/config"
	"github.com/mstern/todolist-api/internal/overdue"
	"github.com/mstern/todolist-api/internal/platform/memory"
	"github.com/mstern/todolist-api/internal/platform/postgres"
	"github.com/mstern/todolist-api/internal/service"
	"github.com/mstern/todolist-api/internal/store"
)

// application bundles the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory backend is selected.
	db *sql.DB

	projectService service.ProjectService
	taskService    service.TaskService
	scheduler      *overdue.Scheduler
}

// newApplication builds the full dependency graph: stores for the
// configured backend, the services on top of them, and the overdue
// scheduler. Postgres migrations run as part of construction.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var projectStore store.ProjectStore
	var taskStore store.TaskStore

	if cfg.Database.URL != "" {
		db, err := setupDatabase(cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if err := postgres.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		projectStore = postgres.NewProjectStore(db, logger)
		taskStore = postgres.NewTaskStore(db, logger)
	} else {
		logger.Info("no database URL configured, using in-memory stores")
		projectStore = memory.NewProjectStore()
		taskStore = memory.NewTaskStore()
	}

	// Deleting a project takes its tasks with it, inside the same
	// transaction.
	cascade := func(ctx context.Context, tx *sql.Tx, projectID int64) error {
		_, err := taskStore.WithTx(tx).DeleteByProject(ctx, projectID)
		return err
	}

	app.projectService = service.NewProjectService(
		projectStore, app.db, cfg.Limits.MaxProjects, cascade, logger)
	app.taskService = service.NewTaskService(
		taskStore, projectStore, app.db, cfg.Limits.MaxTasks, logger)

	interval, err := cfg.OverdueInterval()
	if err != nil {
		return nil, fmt.Errorf("invalid overdue interval: %w", err)
	}
	closer := overdue.NewCloser(taskStore, app.db, logger)
	app.scheduler = overdue.NewScheduler(closer, interval, logger)

	return app, nil
}

// cleanup releases the application's resources in reverse dependency
// order. Called after the HTTP server has drained.
func (app *application) cleanup() {
	app.scheduler.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
