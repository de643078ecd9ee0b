package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/corpus"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/store"
	"github.com/spf13/cobra"
)

var (
	conformanceEngine  string
	conformancePath    string
	conformanceInclude string
	conformanceExclude string
	conformanceDB      string
	conformanceTimeout time.Duration
	conformanceFormat  string
)

var conformanceCmd = &cobra.Command{
	Use:   "conformance",
	Short: "Run the conformance corpus against engines",
	Long: `Run translation and execution cases against one engine or all engines
in this build. Cases that need a feature an engine lacks are skipped.

With --db, every engine run is recorded for later reporting.`,
	RunE: runConformance,
}

func init() {
	conformanceCmd.Flags().StringVarP(&conformanceEngine, "engine", "e", "all", "Engine: regexp2, coregex, hyperscan, all")
	conformanceCmd.Flags().StringVar(&conformancePath, "cases", "", "Path to a custom cases file (default: builtin corpus)")
	conformanceCmd.Flags().StringVar(&conformanceInclude, "include", "", "Comma-separated case ID globs to include")
	conformanceCmd.Flags().StringVar(&conformanceExclude, "exclude", "", "Comma-separated case ID globs to exclude")
	conformanceCmd.Flags().StringVar(&conformanceDB, "db", "", "Record runs in this SQLite database")
	conformanceCmd.Flags().DurationVar(&conformanceTimeout, "timeout", 5*time.Second, "Match timeout for regexp2 (0 = none)")
	conformanceCmd.Flags().StringVar(&conformanceFormat, "format", "human", "Output format: human, json")
}

func runConformance(cmd *cobra.Command, args []string) error {
	kinds, err := parseEngines(conformanceEngine)
	if err != nil {
		return err
	}
	c, err := loadCorpus(conformancePath, conformanceInclude, conformanceExclude)
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		return fmt.Errorf("no cases selected")
	}

	opts := matcherOptions(cmd, conformanceTimeout)
	var runs []*store.Run
	failed := 0
	for _, kind := range kinds {
		runner, err := corpus.NewRunner(kind, opts)
		if err != nil {
			if errors.Is(err, matcher.ErrEngineUnavailable) && len(kinds) > 1 {
				logf(cmd, "skipping %s: %v", kind, err)
				continue
			}
			return err
		}

		logf(cmd, "running %d cases on %s", c.Len(), kind)
		started := time.Now()
		report := runner.Run(c)
		runs = append(runs, newConformanceRun(report, started))
		failed += report.Summary.Failed
	}

	if conformanceDB != "" {
		if err := recordRuns(conformanceDB, runs); err != nil {
			return err
		}
		logf(cmd, "recorded %d run(s) in %s", len(runs), conformanceDB)
	}

	switch conformanceFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(runs); err != nil {
			return err
		}
	case "human":
		outputConformanceHuman(cmd, runs)
	default:
		return fmt.Errorf("unknown output format: %s", conformanceFormat)
	}

	if failed > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d conformance case(s) failed", failed)
	}
	return nil
}

// newConformanceRun converts a corpus report into a stored run.
func newConformanceRun(report *corpus.Report, started time.Time) *store.Run {
	run := &store.Run{
		Kind:      store.KindConformance,
		Engine:    report.Engine.String(),
		StartedAt: started,
		Duration:  report.Duration,
		Total:     report.Summary.Total,
		Passed:    report.Summary.Passed,
		Failed:    report.Summary.Failed,
		Skipped:   report.Summary.Skipped,
	}
	for _, res := range report.Results {
		run.Results = append(run.Results, store.RunResult{
			CaseID:   res.CaseID,
			Status:   res.Status.String(),
			Message:  res.Message,
			Duration: res.Duration,
		})
	}
	return run
}

// recordRuns appends runs to the database at path.
func recordRuns(path string, runs []*store.Run) error {
	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	for _, run := range runs {
		if err := s.AddRun(run); err != nil {
			return fmt.Errorf("recording %s run: %w", run.Engine, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func outputConformanceHuman(cmd *cobra.Command, runs []*store.Run) {
	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "Engine: %s\n", run.Engine)
		for _, res := range run.Results {
			switch {
			case res.Status == corpus.StatusFailed.String():
				fmt.Fprintf(out, "  FAIL %s: %s\n", res.CaseID, res.Message)
			case res.Status == corpus.StatusSkipped.String() && verbose:
				fmt.Fprintf(out, "  SKIP %s: %s\n", res.CaseID, res.Message)
			}
		}
		fmt.Fprintf(out, "  %d cases: %d passed, %d failed, %d skipped (%s)\n",
			run.Total, run.Passed, run.Failed, run.Skipped, run.Duration.Round(time.Microsecond))
	}
}
