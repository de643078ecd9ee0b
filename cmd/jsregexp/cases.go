package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/jsregexp/pkg/corpus"
	"github.com/spf13/cobra"
)

var (
	casesPath    string
	casesInclude string
	casesExclude string
	casesFormat  string
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Manage conformance cases",
	Long:  "Commands for listing and inspecting conformance cases",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conformance cases",
	Long:  "Display conformance cases with their IDs, patterns and requirements",
	RunE:  runCasesList,
}

func init() {
	casesCmd.AddCommand(casesListCmd)
	casesListCmd.Flags().StringVar(&casesPath, "cases", "", "Path to a custom cases file (default: builtin corpus)")
	casesListCmd.Flags().StringVar(&casesInclude, "include", "", "Comma-separated case ID globs to include")
	casesListCmd.Flags().StringVar(&casesExclude, "exclude", "", "Comma-separated case ID globs to exclude")
	casesListCmd.Flags().StringVar(&casesFormat, "format", "table", "Output format: table, json")
}

// caseRow is one listed case.
type caseRow struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Pattern  string   `json:"pattern"`
	Flags    string   `json:"flags,omitempty"`
	Requires []string `json:"requires,omitempty"`
}

func runCasesList(cmd *cobra.Command, args []string) error {
	c, err := loadCorpus(casesPath, casesInclude, casesExclude)
	if err != nil {
		return err
	}

	rows := make([]caseRow, 0, c.Len())
	for _, t := range c.Translations {
		rows = append(rows, caseRow{ID: t.ID, Kind: "translation/" + t.Dialect.String(), Pattern: t.Pattern})
	}
	for _, e := range c.Executions {
		rows = append(rows, caseRow{ID: e.ID, Kind: "execution", Pattern: e.Pattern, Flags: e.Flags, Requires: e.Requires})
	}

	switch casesFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case "table":
		return outputCasesTable(cmd, rows)
	default:
		return fmt.Errorf("unknown output format: %s", casesFormat)
	}
}

// loadCorpus loads the builtin corpus, or the file at path, and filters it.
func loadCorpus(path, include, exclude string) (*corpus.Corpus, error) {
	loader := corpus.NewLoader()

	var (
		c   *corpus.Corpus
		err error
	)
	if path != "" {
		c, err = loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading cases from %s: %w", path, err)
		}
	} else {
		c, err = loader.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin cases: %w", err)
		}
	}

	return corpus.Filter(c, corpus.FilterConfig{
		Include: corpus.ParsePatterns(include),
		Exclude: corpus.ParsePatterns(exclude),
	}), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func outputCasesTable(cmd *cobra.Command, rows []caseRow) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tKind\tPattern\tRequires\n")
	fmt.Fprintf(w, "--\t----\t-------\t--------\n")

	for _, r := range rows {
		pattern := "/" + r.Pattern + "/" + r.Flags
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Kind, pattern, strings.Join(r.Requires, ","))
	}

	return nil
}
