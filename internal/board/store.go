package board

import (
	"slices"
	"sync"

	"todo_webapp/internal/domain"
)

// Store is the client-side copy of the backend's task list. It is only ever
// replaced wholesale by a refresh.
type Store struct {
	mu         sync.RWMutex
	tasks      []domain.Task
	generation uint64
}

func NewStore() *Store {
	return &Store{tasks: []domain.Task{}}
}

// Replace installs tasks fetched by refresh number gen. Results of a refresh
// older than the one already applied are dropped and false is returned.
func (s *Store) Replace(gen uint64, tasks []domain.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.generation {
		return false
	}
	s.generation = gen
	s.tasks = slices.Clone(tasks)
	if s.tasks == nil {
		s.tasks = []domain.Task{}
	}
	return true
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Generation is the number of the last applied refresh.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
