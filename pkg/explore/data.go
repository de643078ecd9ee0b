package explore

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/store"
)

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store store.Store
	runs  []*runRow
}

// loadData opens a run database and loads every run with its results.
// This follows the same pattern as cmd/jsregexp/report.go:runReport.
func loadData(dbPath string) (*exploreData, error) {
	if dbPath == ":memory:" {
		return nil, fmt.Errorf("cannot explore an in-memory database")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %s", dbPath)
	}

	s, err := store.New(store.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	runs, err := s.Runs()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving runs: %w", err)
	}

	return &exploreData{
		store: s,
		runs:  buildRunRows(runs),
	}, nil
}

// runRow is the denormalized view model for a run in the TUI.
type runRow struct {
	Seq       int // 1-based position in recording order
	UUID      string
	Kind      string
	Engine    string
	StartedAt time.Time
	Duration  time.Duration
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	Outcome   string // "passed", "failed", or "skipped"
	Results   []*resultRow
}

// resultRow is the view model for one case or benchmark pattern.
type resultRow struct {
	CaseID   string
	Status   string
	Message  string
	Duration time.Duration
}

func buildRunRows(runs []*store.Run) []*runRow {
	rows := make([]*runRow, 0, len(runs))
	for i, r := range runs {
		rows = append(rows, buildRunRow(i+1, r))
	}
	return rows
}

// buildRunRow creates a runRow from a stored run.
func buildRunRow(seq int, r *store.Run) *runRow {
	row := &runRow{
		Seq:       seq,
		UUID:      r.UUID,
		Kind:      r.Kind,
		Engine:    r.Engine,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Total:     r.Total,
		Passed:    r.Passed,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
		Outcome:   runOutcome(r),
	}

	row.Results = make([]*resultRow, 0, len(r.Results))
	for _, res := range r.Results {
		row.Results = append(row.Results, &resultRow{
			CaseID:   res.CaseID,
			Status:   res.Status,
			Message:  res.Message,
			Duration: res.Duration,
		})
	}
	// Failures first, then skips, then passes; recording order within each.
	sort.SliceStable(row.Results, func(i, j int) bool {
		return statusRank(row.Results[i].Status) < statusRank(row.Results[j].Status)
	})
	return row
}

func statusRank(status string) int {
	switch status {
	case "failed":
		return 0
	case "skipped":
		return 1
	case "passed":
		return 2
	default:
		return 3
	}
}

func runOutcome(r *store.Run) string {
	switch {
	case r.Failed > 0:
		return "failed"
	case r.Total > 0 && r.Skipped == r.Total:
		return "skipped"
	default:
		return "passed"
	}
}

// close closes the underlying store.
func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
