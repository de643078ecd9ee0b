package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/praetorian-inc/jsregexp"
	"github.com/spf13/cobra"
)

var (
	execFlags     string
	execEngine    string
	execAll       bool
	execLiteral   bool
	execLastIndex float64
	execTimeout   time.Duration
	execFormat    string
)

var execCmd = &cobra.Command{
	Use:   "exec <pattern> <input>",
	Short: "Execute a JavaScript regular expression",
	Long: `Compile a JavaScript regular expression and execute it against input,
printing the match array the way RegExp.prototype.exec returns it.

With --all and the g flag, exec is repeated until it fails, following
lastIndex like a JavaScript loop over exec.`,
	Args: cobra.ExactArgs(2),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execFlags, "flags", "f", "", "Expression flags (g, i, m)")
	execCmd.Flags().StringVarP(&execEngine, "engine", "e", "regexp2", "Engine: regexp2, coregex, hyperscan")
	execCmd.Flags().BoolVarP(&execAll, "all", "a", false, "Repeat exec until no match (requires the g flag)")
	execCmd.Flags().BoolVar(&execLiteral, "literal", false, "Treat the pattern as literal text")
	execCmd.Flags().Float64Var(&execLastIndex, "last-index", 0, "Initial lastIndex")
	execCmd.Flags().DurationVar(&execTimeout, "timeout", 0, "Match timeout for regexp2 (0 = none)")
	execCmd.Flags().StringVar(&execFormat, "format", "human", "Output format: human, json")
}

func runExec(cmd *cobra.Command, args []string) error {
	kinds, err := parseEngines(execEngine)
	if err != nil {
		return err
	}
	if len(kinds) != 1 {
		return fmt.Errorf("exec runs on a single engine")
	}

	opts := []jsregexp.Option{
		jsregexp.WithEngine(kinds[0]),
		jsregexp.WithMatcherOptions(matcherOptions(cmd, execTimeout)),
	}
	newFn := jsregexp.New
	if execLiteral {
		newFn = jsregexp.NewLiteral
	}
	re, err := newFn(args[0], execFlags, opts...)
	if err != nil {
		return err
	}
	defer re.Close()
	re.LastIndex = execLastIndex

	results, err := execResults(re, args[1], execAll)
	if err != nil {
		return err
	}

	switch execFormat {
	case "json":
		return outputExecJSON(cmd, results)
	case "human":
		return outputExecHuman(cmd, re, results)
	default:
		return fmt.Errorf("unknown output format: %s", execFormat)
	}
}

// execResults runs re once, or with all set and a global re, until it
// fails. An empty match advances lastIndex by one so the loop terminates.
func execResults(re *jsregexp.RegExp, input string, all bool) ([]*jsregexp.ExecResult, error) {
	var results []*jsregexp.ExecResult
	for {
		res, err := re.Exec(input)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return results, nil
		}
		results = append(results, res)
		if !all || !re.Global() {
			return results, nil
		}
		if res.Groups[0].Value == "" {
			re.LastIndex++
		}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputExecJSON(cmd *cobra.Command, results []*jsregexp.ExecResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if !execAll {
		if len(results) == 0 {
			return encoder.Encode(nil)
		}
		return encoder.Encode(results[0])
	}
	if results == nil {
		results = []*jsregexp.ExecResult{}
	}
	return encoder.Encode(results)
}

func outputExecHuman(cmd *cobra.Command, re *jsregexp.RegExp, results []*jsregexp.ExecResult) error {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "%s: no match\n", re)
		return nil
	}

	for i, res := range results {
		fmt.Fprintf(out, "Match %d/%d at %d: %q\n", i+1, len(results), res.Index, res.Groups[0].Value)
		for n, g := range res.Groups[1:] {
			if !g.Matched {
				fmt.Fprintf(out, "  $%d: undefined\n", n+1)
				continue
			}
			fmt.Fprintf(out, "  $%d: %q\n", n+1, g.Value)
		}
	}
	if verbose {
		fmt.Fprintf(out, "lastIndex: %v\n", re.LastIndex)
	}
	return nil
}
