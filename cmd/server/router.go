package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mstern/todolist-api/internal/api"
	apimiddleware "github.com/mstern/todolist-api/internal/api/middleware"
)

// setupRouter assembles the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.NewTraceMiddleware(app.logger))

	projectHandler := api.NewProjectHandler(app.projectService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{projectID}", projectHandler.GetProject)
		r.Patch("/projects/{projectID}", projectHandler.UpdateProject)
		r.Delete("/projects/{projectID}", projectHandler.DeleteProject)

		r.Post("/projects/{projectID}/tasks", taskHandler.CreateTask)
		r.Get("/projects/{projectID}/tasks", taskHandler.ListTasks)
		r.Get("/projects/{projectID}/tasks/{taskID}", taskHandler.GetTask)
		r.Delete("/projects/{projectID}/tasks/{taskID}", taskHandler.DeleteTask)

		r.Patch("/tasks/{taskID}", taskHandler.UpdateTask)
		r.Put("/tasks/{taskID}/status", taskHandler.SetTaskStatus)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
