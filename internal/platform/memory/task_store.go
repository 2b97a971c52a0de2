package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// TaskStore implements store.TaskStore on two in-process indices: id to
// task and project id to the set of owned task ids. Access is
// mutex-guarded; see ProjectStore for the concurrency caveat.
type TaskStore struct {
	mu           sync.Mutex
	byID         map[int64]domain.Task
	idsByProject map[int64]map[int64]struct{}
	nextID       int64
	now          func() time.Time
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		byID:         make(map[int64]domain.Task),
		idsByProject: make(map[int64]map[int64]struct{}),
		nextID:       1,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// SetClock replaces the store's time source for tests.
func (s *TaskStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithTx implements store.TaskStore.WithTx. The in-memory store has no
// transaction manager; every operation is individually atomic.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

// Create implements store.TaskStore.Create. Identity and creation time
// are assigned synchronously into the caller's entity.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	task.CreatedAt = s.now()

	s.byID[task.ID] = *task
	ids, ok := s.idsByProject[task.ProjectID]
	if !ok {
		ids = make(map[int64]struct{})
		s.idsByProject[task.ProjectID] = ids
	}
	ids[task.ID] = struct{}{}
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.byID[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// ListByProject implements store.TaskStore.ListByProject.
func (s *TaskStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*domain.Task, 0, len(s.idsByProject[projectID]))
	for id := range s.idsByProject[projectID] {
		task := s.byID[id]
		tasks = append(tasks, &task)
	}
	sortTasks(tasks)
	return tasks, nil
}

// ListOverdue implements store.TaskStore.ListOverdue.
func (s *TaskStore) ListOverdue(ctx context.Context, ref time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []*domain.Task{}
	for _, task := range s.byID {
		if task.Overdue(ref) {
			t := task
			tasks = append(tasks, &t)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.byID[task.ID] = *task
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	s.removeLocked(task)
	return true, nil
}

// DeleteByProject implements store.TaskStore.DeleteByProject.
func (s *TaskStore) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id := range s.idsByProject[projectID] {
		s.removeLocked(s.byID[id])
		deleted++
	}
	return deleted, nil
}

// Count implements store.TaskStore.Count.
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byID)), nil
}

// removeLocked deletes a task from both indices. Callers hold s.mu.
func (s *TaskStore) removeLocked(task domain.Task) {
	delete(s.byID, task.ID)
	if ids, ok := s.idsByProject[task.ProjectID]; ok {
		delete(ids, task.ID)
		if len(ids) == 0 {
			delete(s.idsByProject, task.ProjectID)
		}
	}
}

// sortTasks orders tasks by creation time ascending, then id.
func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
