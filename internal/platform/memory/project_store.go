// Package memory implements the store contracts on in-process maps.
// It backs tests and local runs without a database; the store objects
// have an explicit lifecycle (construct, inject, discard) instead of
// package-level state.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// ProjectStore implements store.ProjectStore on two in-process indices:
// id to project and lowercased name to id. Access is mutex-guarded so
// concurrent tests are safe; production traffic belongs on the Postgres
// implementation with real transaction isolation.
type ProjectStore struct {
	mu       sync.Mutex
	byID     map[int64]domain.Project
	idByName map[string]int64
	nextID   int64
	now      func() time.Time
}

// NewProjectStore creates an empty in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		byID:     make(map[int64]domain.Project),
		idByName: make(map[string]int64),
		nextID:   1,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ensure ProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*ProjectStore)(nil)

// SetClock replaces the store's time source. Tests use it to control
// assigned creation timestamps.
func (s *ProjectStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithTx implements store.ProjectStore.WithTx. The in-memory store has no
// transaction manager; every operation is individually atomic.
func (s *ProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return s
}

// Create implements store.ProjectStore.Create. Identity and creation time
// are assigned synchronously into the caller's entity.
func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(project.Name)
	if _, exists := s.idByName[key]; exists {
		return store.ErrDuplicateName
	}

	project.ID = s.nextID
	s.nextID++
	project.CreatedAt = s.now()

	s.byID[project.ID] = *project
	s.idByName[key] = project.ID
	return nil
}

// GetByID implements store.ProjectStore.GetByID.
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.byID[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	return &project, nil
}

// GetByName implements store.ProjectStore.GetByName with a
// case-insensitive match through the secondary index.
func (s *ProjectStore) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.idByName[strings.ToLower(name)]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	project := s.byID[id]
	return &project, nil
}

// List implements store.ProjectStore.List. The backing map is unordered,
// so the creation-time ordering is produced on demand.
func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*domain.Project, 0, len(s.byID))
	for _, project := range s.byID {
		p := project
		projects = append(projects, &p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects, nil
}

// Update implements store.ProjectStore.Update.
func (s *ProjectStore) Update(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[project.ID]
	if !ok {
		return store.ErrProjectNotFound
	}

	key := strings.ToLower(project.Name)
	if id, exists := s.idByName[key]; exists && id != project.ID {
		return store.ErrDuplicateName
	}

	delete(s.idByName, strings.ToLower(existing.Name))
	s.idByName[key] = project.ID
	s.byID[project.ID] = *project
	return nil
}

// Delete implements store.ProjectStore.Delete.
func (s *ProjectStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	delete(s.byID, id)
	delete(s.idByName, strings.ToLower(project.Name))
	return true, nil
}

// Count implements store.ProjectStore.Count.
func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byID)), nil
}
