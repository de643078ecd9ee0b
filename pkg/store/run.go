package store

import "time"

// Run kinds.
const (
	KindConformance = "conformance"
	KindBench       = "bench"
)

// Run is one conformance or benchmark run against a single engine.
type Run struct {
	ID        int64         `json:"-"`          // assigned by the store
	UUID      string        `json:"uuid"`       // stable identity across databases; generated when empty
	Kind      string        `json:"kind"`       // KindConformance or KindBench
	Engine    string        `json:"engine"`     // engine name
	StartedAt time.Time     `json:"started_at"` // wall clock start
	Duration  time.Duration `json:"duration_ns"`

	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`

	Results []RunResult `json:"results"`
}

// RunResult is the outcome of one case or benchmark pattern.
type RunResult struct {
	CaseID   string        `json:"case_id"`
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}
