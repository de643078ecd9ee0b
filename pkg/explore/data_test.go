package explore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/store"
)

func TestBuildRunRow(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &store.Run{
		UUID:      "run-1",
		Kind:      store.KindConformance,
		Engine:    "regexp2",
		StartedAt: started,
		Duration:  2 * time.Second,
		Total:     4,
		Passed:    2,
		Failed:    1,
		Skipped:   1,
		Results: []store.RunResult{
			{CaseID: "exec-1", Status: "passed"},
			{CaseID: "exec-2", Status: "skipped", Message: "engine cannot run lookbehind"},
			{CaseID: "exec-3", Status: "passed"},
			{CaseID: "exec-4", Status: "failed", Message: "group 1: got undefined"},
		},
	}

	row := buildRunRow(3, run)

	if row.Seq != 3 {
		t.Errorf("expected seq 3, got %d", row.Seq)
	}
	if row.Engine != "regexp2" || row.Kind != store.KindConformance {
		t.Errorf("unexpected engine/kind: %s/%s", row.Engine, row.Kind)
	}
	if !row.StartedAt.Equal(started) {
		t.Errorf("expected start %v, got %v", started, row.StartedAt)
	}
	if row.Outcome != "failed" {
		t.Errorf("expected outcome failed, got %q", row.Outcome)
	}

	// Failures first, then skips, then passes in recording order
	want := []string{"exec-4", "exec-2", "exec-1", "exec-3"}
	if len(row.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(row.Results))
	}
	for i, id := range want {
		if row.Results[i].CaseID != id {
			t.Errorf("result %d: expected %s, got %s", i, id, row.Results[i].CaseID)
		}
	}
	if row.Results[0].Message != "group 1: got undefined" {
		t.Errorf("expected failure message to be kept, got %q", row.Results[0].Message)
	}
}

func TestRunOutcome(t *testing.T) {
	tests := []struct {
		name string
		run  store.Run
		want string
	}{
		{"all passed", store.Run{Total: 3, Passed: 3}, "passed"},
		{"one failed", store.Run{Total: 3, Passed: 2, Failed: 1}, "failed"},
		{"all skipped", store.Run{Total: 2, Skipped: 2}, "skipped"},
		{"some skipped", store.Run{Total: 3, Passed: 1, Skipped: 2}, "passed"},
		{"empty", store.Run{}, "passed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runOutcome(&tt.run); got != tt.want {
				t.Errorf("runOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := store.New(store.Config{Path: path})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	for _, engine := range []string{"regexp2", "coregex"} {
		err := s.AddRun(&store.Run{
			Kind:      store.KindConformance,
			Engine:    engine,
			StartedAt: time.Now(),
			Total:     1,
			Passed:    1,
			Results:   []store.RunResult{{CaseID: "lit-1", Status: "passed"}},
		})
		if err != nil {
			t.Fatalf("failed to add run: %v", err)
		}
	}
	s.Close()

	data, err := loadData(path)
	if err != nil {
		t.Fatalf("loadData failed: %v", err)
	}
	defer data.close()

	if len(data.runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(data.runs))
	}
	if data.runs[0].Seq != 1 || data.runs[0].Engine != "regexp2" {
		t.Errorf("expected first run to be regexp2 with seq 1, got %s/%d", data.runs[0].Engine, data.runs[0].Seq)
	}
	if len(data.runs[1].Results) != 1 {
		t.Errorf("expected results to be loaded, got %d", len(data.runs[1].Results))
	}
}

func TestLoadData_Errors(t *testing.T) {
	if _, err := loadData(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing database")
	}
	if _, err := loadData(":memory:"); err == nil {
		t.Error("expected error for in-memory database")
	}
}
