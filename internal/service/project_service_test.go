package service_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/platform/memory"
	"github.com/mstern/todolist-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxProjects = 3

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newProjectFixture wires a ProjectService onto fresh in-memory stores
// with the task-cascade hook installed, the way the composition root does.
func newProjectFixture(t *testing.T) (service.ProjectService, *memory.ProjectStore, *memory.TaskStore) {
	t.Helper()
	projects := memory.NewProjectStore()
	tasks := memory.NewTaskStore()

	cascade := func(ctx context.Context, tx *sql.Tx, projectID int64) error {
		_, err := tasks.WithTx(tx).DeleteByProject(ctx, projectID)
		return err
	}

	svc := service.NewProjectService(projects, nil, testMaxProjects, cascade, quietLogger())
	return svc, projects, tasks
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success assigns identity", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)

		project, err := svc.CreateProject(ctx, "Alpha", "release planning")
		require.NoError(t, err)
		assert.Positive(t, project.ID)
		assert.False(t, project.CreatedAt.IsZero())
		assert.Equal(t, "Alpha", project.Name)
	})

	t.Run("oversized name not persisted", func(t *testing.T) {
		t.Parallel()
		svc, projects, _ := newProjectFixture(t)

		_, err := svc.CreateProject(ctx, strings.Repeat("w ", domain.NameMaxWords+1), "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))

		count, cErr := projects.Count(ctx)
		require.NoError(t, cErr)
		assert.Equal(t, int64(0), count)
	})

	t.Run("oversized description rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)

		_, err := svc.CreateProject(ctx, "Alpha", strings.Repeat("w ", domain.DescriptionMaxWords+1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("case-insensitive duplicate rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)

		_, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		_, err = svc.CreateProject(ctx, "ALPHA", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicateProjectName))

		var dupErr *domain.DuplicateProjectNameError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, "ALPHA", dupErr.Name)
	})

	t.Run("limit enforced at boundary", func(t *testing.T) {
		t.Parallel()
		svc, projects, _ := newProjectFixture(t)

		names := []string{"One", "Two", "Three"}
		for _, name := range names {
			_, err := svc.CreateProject(ctx, name, "")
			require.NoError(t, err)
		}

		_, err := svc.CreateProject(ctx, "Four", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrProjectLimitReached))

		var limitErr *domain.ProjectLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, testMaxProjects, limitErr.Limit)

		count, cErr := projects.Count(ctx)
		require.NoError(t, cErr)
		assert.Equal(t, int64(testMaxProjects), count)
	})

	t.Run("creation below limit increases count by one", func(t *testing.T) {
		t.Parallel()
		svc, projects, _ := newProjectFixture(t)

		before, err := projects.Count(ctx)
		require.NoError(t, err)

		_, err = svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		after, err := projects.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})
}

func TestProjectService_GetProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newProjectFixture(t)

	created, err := svc.CreateProject(ctx, "Alpha", "")
	require.NoError(t, err)

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetProject(ctx, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProjectNotFound))
}

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newProjectFixture(t)

	for _, name := range []string{"First", "Second"} {
		_, err := svc.CreateProject(ctx, name, "")
		require.NoError(t, err)
	}

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "First", projects[0].Name)
	assert.Equal(t, "Second", projects[1].Name)
}

func strPtr(s string) *string { return &s }

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no fields supplied", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		created, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		_, err = svc.UpdateProject(ctx, created.ID, service.ProjectUpdate{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("partial update keeps unsupplied fields", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		created, err := svc.CreateProject(ctx, "Alpha", "original description")
		require.NoError(t, err)

		updated, err := svc.UpdateProject(ctx, created.ID, service.ProjectUpdate{
			Name: strPtr("  Renamed  "),
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "original description", updated.Description)
	})

	t.Run("empty name after trim rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		created, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		_, err = svc.UpdateProject(ctx, created.ID, service.ProjectUpdate{Name: strPtr("   ")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("rename into collision rejected, prior state kept", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		_, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)
		beta, err := svc.CreateProject(ctx, "Beta", "")
		require.NoError(t, err)

		_, err = svc.UpdateProject(ctx, beta.ID, service.ProjectUpdate{Name: strPtr("alpha")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicateProjectName))

		got, err := svc.GetProject(ctx, beta.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beta", got.Name)
	})

	t.Run("self-match allowed on rename", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		created, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		updated, err := svc.UpdateProject(ctx, created.ID, service.ProjectUpdate{Name: strPtr("ALPHA")})
		require.NoError(t, err)
		assert.Equal(t, "ALPHA", updated.Name)
	})

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		_, err := svc.UpdateProject(ctx, 999, service.ProjectUpdate{Name: strPtr("Ghost")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrProjectNotFound))
	})
}

func TestProjectService_DeleteProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("cascades to tasks", func(t *testing.T) {
		t.Parallel()
		svc, _, tasks := newProjectFixture(t)
		created, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			require.NoError(t, tasks.Create(ctx, &domain.Task{
				ProjectID: created.ID,
				Title:     "task",
				Status:    domain.TaskStatusTodo,
			}))
		}

		require.NoError(t, svc.DeleteProject(ctx, created.ID))

		_, err = svc.GetProject(ctx, created.ID)
		assert.True(t, errors.Is(err, domain.ErrProjectNotFound))

		remaining, err := tasks.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), remaining)
	})

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newProjectFixture(t)
		err := svc.DeleteProject(ctx, 999)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrProjectNotFound))
	})

	t.Run("without cascade hook the project still goes", func(t *testing.T) {
		t.Parallel()
		projects := memory.NewProjectStore()
		svc := service.NewProjectService(projects, nil, testMaxProjects, nil, quietLogger())

		created, err := svc.CreateProject(ctx, "Alpha", "")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteProject(ctx, created.ID))
	})
}
