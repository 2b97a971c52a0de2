package api

import (
	"log/slog"
	"net/http"

	"github.com/mstern/todolist-api/internal/api/shared"
	"github.com/mstern/todolist-api/internal/platform/logger"
	"github.com/mstern/todolist-api/internal/service"
)

// CreateTaskRequest is the request body for creating a task. Status and
// deadline are optional; status defaults to todo.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Status      *string `json:"status"`
	Deadline    *string `json:"deadline"`
}

// UpdateTaskRequest is the request body for a partial task update.
// Absent fields keep their prior values.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Deadline    *string `json:"deadline"`
}

// SetTaskStatusRequest is the request body for a status transition.
type SetTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/projects/{projectID}/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), projectID, service.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.Int64("project_id", projectID),
		slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/projects/{projectID}/tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksForProject(r.Context(), projectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/projects/{projectID}/tasks/{taskID} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskForProject(r.Context(), projectID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PATCH /api/tasks/{taskID} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := parseIDParam(w, r, "taskID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task updated", slog.Int64("task_id", taskID))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// SetTaskStatus handles PUT /api/tasks/{taskID}/status requests.
func (h *TaskHandler) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := parseIDParam(w, r, "taskID")
	if !ok {
		return
	}

	var req SetTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Status is required")
		return
	}

	task, err := h.taskService.SetTaskStatus(r.Context(), taskID, req.Status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task status set",
		slog.Int64("task_id", taskID),
		slog.String("status", string(task.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/projects/{projectID}/tasks/{taskID}
// requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), projectID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted",
		slog.Int64("project_id", projectID),
		slog.Int64("task_id", taskID))
	w.WriteHeader(http.StatusNoContent)
}
