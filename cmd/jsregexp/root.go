package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "jsregexp",
	Short: "jsregexp - JavaScript regular expressions on Go engines",
	Long: `jsregexp runs ECMAScript regular expressions on Go regex engines.
It translates JavaScript syntax for regexp2, coregex or Hyperscan, executes
expressions with JavaScript semantics and checks engines against a
conformance corpus.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(conformanceCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// =============================================================================
// HELPERS
// =============================================================================

// matcherOptions builds engine options; engine diagnostics are dropped in
// quiet mode.
func matcherOptions(cmd *cobra.Command, timeout time.Duration) matcher.Options {
	opts := matcher.DefaultOptions()
	opts.MatchTimeout = timeout
	opts.Diagnostics = cmd.ErrOrStderr()
	if quiet {
		opts.Diagnostics = io.Discard
	}
	return opts
}

// parseEngines maps an --engine value to engine kinds. "all" selects every
// engine in this build.
func parseEngines(name string) ([]matcher.Kind, error) {
	if name == "all" {
		return matcher.Kinds(), nil
	}
	kind, err := matcher.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []matcher.Kind{kind}, nil
}

// logf writes a progress line to stderr unless quiet.
func logf(cmd *cobra.Command, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// engineNames lists the engines in this build.
func engineNames() string {
	var names []string
	for _, k := range matcher.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
