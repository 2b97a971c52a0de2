// Package main implements the entry point for the todolist API server,
// which tracks projects and their tasks and automatically closes tasks
// whose deadline has passed.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/mstern/todolist-api/internal/config"
	"github.com/mstern/todolist-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"max_projects", cfg.Limits.MaxProjects,
		"max_tasks", cfg.Limits.MaxTasks,
		"database_backend", databaseBackend(cfg))

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.scheduler.Start()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func databaseBackend(cfg *config.Config) string {
	if cfg.Database.URL == "" {
		return "memory"
	}
	return "postgres"
}
