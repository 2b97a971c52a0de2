package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/mstern/todolist-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func createTask(t *testing.T, router http.Handler, projectID int64, body map[string]interface{}) api.TaskResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/projects/"+itoa(projectID)+"/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var resp api.TaskResponse
	decodeBody(t, rec, &resp)
	return resp
}

func TestTaskEndpoints_Create(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Write docs"})
		assert.Positive(t, task.ID)
		assert.Equal(t, project.ID, task.ProjectID)
		assert.Equal(t, "todo", task.Status)
		assert.Nil(t, task.Deadline)
		assert.Nil(t, task.ClosedAt)
	})

	t.Run("explicit status and deadline", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		task := createTask(t, router, project.ID, map[string]interface{}{
			"title":    "Ship release",
			"status":   "doing",
			"deadline": "2026-12-31",
		})
		assert.Equal(t, "doing", task.Status)
		require.NotNil(t, task.Deadline)
		assert.Equal(t, "2026-12-31", *task.Deadline)
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		rec := doJSON(t, router, http.MethodPost, "/api/projects/"+itoa(project.ID)+"/tasks",
			map[string]interface{}{"description": "no title"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed deadline", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		rec := doJSON(t, router, http.MethodPost, "/api/projects/"+itoa(project.ID)+"/tasks",
			map[string]interface{}{"title": "Task", "deadline": "31-12-2026"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		rec := doJSON(t, router, http.MethodPost, "/api/projects/"+itoa(project.ID)+"/tasks",
			map[string]interface{}{"title": "Task", "status": "blocked"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/api/projects/999/tasks",
			map[string]interface{}{"title": "Orphan"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("limit conflicts", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		for i := 0; i < testMaxTasks; i++ {
			createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})
		}

		rec := doJSON(t, router, http.MethodPost, "/api/projects/"+itoa(project.ID)+"/tasks",
			map[string]interface{}{"title": "One too many"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTaskEndpoints_GetAndList(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)
	project := createProject(t, router, "Alpha")
	other := createProject(t, router, "Beta")
	task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/projects/"+itoa(project.ID)+"/tasks/"+itoa(task.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.TaskResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, task.ID, resp.ID)
	})

	t.Run("get under wrong project rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/projects/"+itoa(other.ID)+"/tasks/"+itoa(task.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get missing task", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/projects/"+itoa(project.ID)+"/tasks/999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/projects/"+itoa(project.ID)+"/tasks", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []api.TaskResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, task.ID, resp[0].ID)
	})

	t.Run("list for missing project", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/projects/999/tasks", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEndpoints_Update(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{
			"title":       "Original",
			"description": "keep me",
		})

		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/"+itoa(task.ID),
			map[string]string{"title": "Renamed"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.TaskResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Renamed", resp.Title)
		assert.Equal(t, "keep me", resp.Description)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/"+itoa(task.ID), map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/999",
			map[string]string{"title": "Ghost"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEndpoints_SetStatus(t *testing.T) {
	t.Parallel()

	t.Run("transition applied", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status",
			map[string]string{"status": "done"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.TaskResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "done", resp.Status)
		assert.Nil(t, resp.ClosedAt)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status",
			map[string]string{"status": "paused"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing status field", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status",
			map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPut, "/api/tasks/999/status",
			map[string]string{"status": "done"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEndpoints_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodDelete,
			"/api/projects/"+itoa(project.ID)+"/tasks/"+itoa(task.ID), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet,
			"/api/projects/"+itoa(project.ID)+"/tasks/"+itoa(task.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong project rejected", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")
		other := createProject(t, router, "Beta")
		task := createTask(t, router, project.ID, map[string]interface{}{"title": "Task"})

		rec := doJSON(t, router, http.MethodDelete,
			"/api/projects/"+itoa(other.ID)+"/tasks/"+itoa(task.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(t)
		project := createProject(t, router, "Alpha")

		rec := doJSON(t, router, http.MethodDelete,
			"/api/projects/"+itoa(project.ID)+"/tasks/999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
