package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/praetorian-inc/jsregexp/pkg/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	reportDB     string
	reportFormat string
	reportColor  string
	reportLast   int
	reportKind   string
)

// styles holds color formatters for report output
type styles struct {
	runHeading *color.Color
	id         *color.Color
	engine     *color.Color
	heading    *color.Color
	passed     *color.Color
	failed     *color.Color
	skipped    *color.Color
	metadata   *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		runHeading: color.New(color.Bold, color.FgHiWhite),
		id:         color.New(color.FgHiGreen),
		engine:     color.New(color.Bold, color.FgHiBlue),
		heading:    color.New(color.Bold),
		passed:     color.New(color.FgGreen),
		failed:     color.New(color.Bold, color.FgRed),
		skipped:    color.New(color.FgYellow),
		metadata:   color.New(color.FgHiBlue),
	}

	if !enabled {
		// Disable colors on all formatters
		s.runHeading.DisableColor()
		s.id.DisableColor()
		s.engine.DisableColor()
		s.heading.DisableColor()
		s.passed.DisableColor()
		s.failed.DisableColor()
		s.skipped.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report recorded conformance and benchmark runs",
	Long:  "Read runs from a database written by conformance or bench and output a summary report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDB, "db", "jsregexp.db", "Path to the run database")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().IntVar(&reportLast, "last", 0, "Only report the most recent N runs (0 = all)")
	reportCmd.Flags().StringVar(&reportKind, "kind", "", "Only report runs of this kind: conformance, bench")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Check if it's :memory: (invalid for report)
	if reportDB == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDB); err != nil {
		return fmt.Errorf("database not found: %s", reportDB)
	}

	s, err := store.New(store.Config{Path: reportDB})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	all, err := s.Runs()
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}
	runs := selectRuns(all, reportKind, reportLast)

	// Output based on format
	switch reportFormat {
	case "json":
		if runs == nil {
			runs = []*store.Run{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	case "human":
		return outputReportHuman(cmd, runs)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// selectRuns keeps runs of kind (all kinds when empty), then the last n
// (all when n <= 0).
func selectRuns(runs []*store.Run, kind string, n int) []*store.Run {
	var out []*store.Run
	for _, r := range runs {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

func outputReportHuman(cmd *cobra.Command, runs []*store.Run) error {
	out := cmd.OutOrStdout()

	// Determine if colors should be enabled based on --color flag
	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		// Check if stdout is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	s := newStyles(!color.NoColor)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for i, r := range runs {
		// Run header - "Run N/M" in runHeading style, "(id xyz)" with UUID in id style
		fmt.Fprintf(out, "%s (%s %s)\n",
			s.runHeading.Sprintf("Run %d/%d", i+1, len(runs)),
			s.heading.Sprint("id"),
			s.id.Sprint(r.UUID))

		fmt.Fprintf(out, "%s %s  %s %s\n",
			s.heading.Sprint("Kind:"), s.metadata.Sprint(r.Kind),
			s.heading.Sprint("Engine:"), s.engine.Sprint(r.Engine))
		fmt.Fprintf(out, "%s %s  %s %s\n",
			s.heading.Sprint("Started:"), s.metadata.Sprint(r.StartedAt.Format(time.RFC3339)),
			s.heading.Sprint("Duration:"), s.metadata.Sprint(r.Duration.Round(time.Microsecond)))
		fmt.Fprintf(out, "%s %d  %s  %s  %s\n",
			s.heading.Sprint("Cases:"), r.Total,
			s.passed.Sprintf("%d passed", r.Passed),
			s.failed.Sprintf("%d failed", r.Failed),
			s.skipped.Sprintf("%d skipped", r.Skipped))

		for _, res := range r.Results {
			switch {
			case res.Status == "failed":
				fmt.Fprintf(out, "    %s %s: %s\n", s.failed.Sprint("FAIL"), res.CaseID, res.Message)
			case r.Kind == store.KindBench:
				fmt.Fprintf(out, "    %s: %s (%s)\n", res.CaseID, res.Message, res.Duration.Round(time.Microsecond))
			case res.Status == "skipped" && verbose:
				fmt.Fprintf(out, "    %s %s: %s\n", s.skipped.Sprint("SKIP"), res.CaseID, res.Message)
			}
		}

		fmt.Fprintf(out, "\n")
	}

	return nil
}
