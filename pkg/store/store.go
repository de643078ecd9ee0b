package store

import (
	"fmt"
)

// Store provides persistence for run history.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, in-memory).
type Store interface {
	// AddRun stores a run with its results and sets r.ID.
	// A run whose UUID is already stored is ignored.
	AddRun(r *Run) error

	// Runs retrieves all runs with their results, oldest first.
	Runs() ([]*Run, error)

	// RunExists checks if a run with this UUID is stored.
	RunExists(uuid string) (bool, error)

	// Close closes the database connection.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for in-memory database (useful for testing).
	Path string
}

// New creates a new Store.
// For ":memory:" paths, returns MemoryStore; otherwise SQLite.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
