package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive between queries
	db.SetMaxOpenConns(1)

	// Initialize schema
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddRun stores a run with its results in one transaction.
func (s *SQLiteStore) AddRun(r *Run) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT OR IGNORE INTO runs (uuid, kind, engine, started_at, duration_ns, total, passed, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.UUID,
		r.Kind,
		r.Engine,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(r.Duration),
		r.Total,
		r.Passed,
		r.Failed,
		r.Skipped,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	if inserted == 0 {
		// Idempotent - already exists
		return tx.QueryRow("SELECT id FROM runs WHERE uuid = ?", r.UUID).Scan(&r.ID)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_results (run_id, case_id, status, message, duration_ns)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for _, rr := range r.Results {
		if _, err := stmt.Exec(id, rr.CaseID, rr.Status, rr.Message, int64(rr.Duration)); err != nil {
			return fmt.Errorf("inserting result %s: %w", rr.CaseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	r.ID = id
	return nil
}

// Runs retrieves all runs with their results, oldest first.
func (s *SQLiteStore) Runs() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, uuid, kind, engine, started_at, duration_ns, total, passed, failed, skipped
		FROM runs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	byID := make(map[int64]*Run)
	for rows.Next() {
		var (
			r         Run
			startedAt string
			duration  int64
		)
		if err := rows.Scan(&r.ID, &r.UUID, &r.Kind, &r.Engine, &startedAt, &duration,
			&r.Total, &r.Passed, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %d: %w", r.ID, err)
		}
		r.Duration = time.Duration(duration)
		runs = append(runs, &r)
		byID[r.ID] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	if err := s.loadResults(byID); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *SQLiteStore) loadResults(byID map[int64]*Run) error {
	rows, err := s.db.Query(`
		SELECT run_id, case_id, status, message, duration_ns
		FROM run_results ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			runID    int64
			rr       RunResult
			message  sql.NullString
			duration int64
		)
		if err := rows.Scan(&runID, &rr.CaseID, &rr.Status, &message, &duration); err != nil {
			return fmt.Errorf("scanning result: %w", err)
		}
		rr.Message = message.String
		rr.Duration = time.Duration(duration)
		if r, ok := byID[runID]; ok {
			r.Results = append(r.Results, rr)
		}
	}
	return rows.Err()
}

// RunExists checks if a run with this UUID is stored.
func (s *SQLiteStore) RunExists(id string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE uuid = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking run: %w", err)
	}
	return count > 0, nil
}

// DB returns the underlying database connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
