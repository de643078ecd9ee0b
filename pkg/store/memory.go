package store

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   []*Run
	byUUID map[string]*Run
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		runs:   make([]*Run, 0),
		byUUID: make(map[string]*Run),
	}
}

// AddRun stores a run with its results.
func (m *MemoryStore) AddRun(r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	if existing, exists := m.byUUID[r.UUID]; exists {
		// Idempotent - already exists
		r.ID = existing.ID
		return nil
	}

	r.ID = int64(len(m.runs) + 1)
	stored := *r
	stored.Results = append([]RunResult(nil), r.Results...)
	m.runs = append(m.runs, &stored)
	m.byUUID[r.UUID] = &stored
	return nil
}

// Runs retrieves all runs, oldest first.
func (m *MemoryStore) Runs() ([]*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Run, len(m.runs))
	for i, r := range m.runs {
		cp := *r
		cp.Results = append([]RunResult(nil), r.Results...)
		out[i] = &cp
	}
	return out, nil
}

// RunExists checks if a run with this UUID is stored.
func (m *MemoryStore) RunExists(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.byUUID[id]
	return exists, nil
}

// Close is a no-op for in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
