package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/store"
	"github.com/spf13/cobra"
)

var (
	benchEngine     string
	benchIterations int
	benchLines      int
	benchDB         string
	benchFormat     string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the regexp-dna benchmark",
	Long: `Run the regexp-dna workload: strip FASTA headers and newlines with a
global expression, count case-insensitive matches of nine DNA variants and
substitute IUB codes with text-only expressions.

With more than one engine, match counts are checked against the first
engine and disagreements are reported as failures.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchEngine, "engine", "e", "all", "Engine: regexp2, coregex, hyperscan, all")
	benchCmd.Flags().IntVarP(&benchIterations, "iterations", "n", 5, "Number of iterations per engine")
	benchCmd.Flags().IntVar(&benchLines, "lines", 1000, "Number of 60-column sequence lines in the generated input")
	benchCmd.Flags().StringVar(&benchDB, "db", "", "Record runs in this SQLite database")
	benchCmd.Flags().StringVar(&benchFormat, "format", "human", "Output format: human, json")
}

// dnaVariants are the expressions counted by the workload.
var dnaVariants = []string{
	"agggtaaa|tttaccct",
	"[cgt]gggtaaa|tttaccc[acg]",
	"a[act]ggtaaa|tttacc[agt]t",
	"ag[act]gtaaa|tttac[agt]ct",
	"agg[act]taaa|ttta[agt]cct",
	"aggg[acg]aaa|ttt[cgt]ccct",
	"agggt[cgt]aa|tt[acg]accct",
	"agggta[cgt]a|t[acg]taccct",
	"agggtaa[cgt]|[acg]ttaccct",
}

// iubCodes maps IUB ambiguity codes to their alternations.
var iubCodes = map[string]string{
	"B": "(c|g|t)", "D": "(a|g|t)", "H": "(a|c|t)", "K": "(g|t)",
	"M": "(a|c)", "N": "(a|c|g|t)", "R": "(a|g)", "S": "(c|t)",
	"V": "(a|c|g)", "W": "(a|t)", "Y": "(c|t)",
}

// dnaResult is the outcome of one workload iteration.
type dnaResult struct {
	Counts   []int
	Times    []time.Duration // per variant, compile and count
	InputLen int
	CleanLen int
	SubstLen int
	Total    time.Duration
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchIterations < 1 {
		return fmt.Errorf("--iterations must be at least 1")
	}
	kinds, err := parseEngines(benchEngine)
	if err != nil {
		return err
	}

	input := dnaInput(benchLines)
	opts := matcherOptions(cmd, 0)

	var (
		runs     []*store.Run
		baseline []int
		failed   int
	)
	for _, kind := range kinds {
		if kind == matcher.KindHyperscan && !matcher.HyperscanAvailable() {
			if len(kinds) > 1 {
				logf(cmd, "skipping %s: %v", kind, matcher.ErrEngineUnavailable)
				continue
			}
			return fmt.Errorf("engine %s: %w", kind, matcher.ErrEngineUnavailable)
		}

		started := time.Now()
		var results []*dnaResult
		for i := 0; i < benchIterations; i++ {
			res, err := regexpDNA(input, kind, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			logf(cmd, "%s iteration %d: %s (input %d, stripped %d, substituted %d)",
				kind, i+1, res.Total.Round(time.Microsecond), res.InputLen, res.CleanLen, res.SubstLen)
			results = append(results, res)
		}

		run := newBenchRun(kind, started, results, baseline)
		if baseline == nil {
			baseline = results[0].Counts
		}
		failed += run.Failed
		runs = append(runs, run)
	}

	if benchDB != "" {
		if err := recordRuns(benchDB, runs); err != nil {
			return err
		}
		logf(cmd, "recorded %d run(s) in %s", len(runs), benchDB)
	}

	switch benchFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(runs); err != nil {
			return err
		}
	case "human":
		outputBenchHuman(cmd, runs)
	default:
		return fmt.Errorf("unknown output format: %s", benchFormat)
	}

	if failed > 0 {
		cmd.SilenceUsage = true
		return errors.New("engines disagree on match counts")
	}
	return nil
}

// dnaInput generates a FASTA document with lines sequence lines of 60
// nucleotides from the shootout linear congruential generator.
func dnaInput(lines int) string {
	const (
		im = 139968
		ia = 3877
		ic = 29573
	)
	seed := 42
	var b strings.Builder
	b.WriteString(">ONE Homo sapiens alu\n")
	for i := 0; i < lines; i++ {
		if i == lines/2 {
			b.WriteString(">TWO IUB ambiguity codes\n")
		}
		for j := 0; j < 60; j++ {
			seed = (seed*ia + ic) % im
			b.WriteByte("acgt"[seed*4/im])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// regexpDNA runs one iteration of the workload on engine kind.
func regexpDNA(input string, kind matcher.Kind, opts matcher.Options) (*dnaResult, error) {
	start := time.Now()
	withEngine := []jsregexp.Option{jsregexp.WithEngine(kind), jsregexp.WithMatcherOptions(opts)}

	input = input + input + input
	res := &dnaResult{InputLen: utf8.RuneCountInString(input)}

	strip, err := jsregexp.New(`>.*\n|\n`, "g", withEngine...)
	if err != nil {
		return nil, err
	}
	defer strip.Close()
	clean, err := replaceAll(strip, input, "")
	if err != nil {
		return nil, err
	}
	res.CleanLen = utf8.RuneCountInString(clean)

	for _, variant := range dnaVariants {
		t := time.Now()
		re, err := jsregexp.New(variant, "ig", withEngine...)
		if err != nil {
			return nil, err
		}
		n, err := countMatches(re, clean)
		re.Close()
		if err != nil {
			return nil, err
		}
		res.Counts = append(res.Counts, n)
		res.Times = append(res.Times, time.Since(t))
	}

	codes := make([]string, 0, len(iubCodes))
	for code := range iubCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		re, err := jsregexp.NewLiteral(code, "g", withEngine...)
		if err != nil {
			return nil, err
		}
		clean, err = replaceAll(re, clean, iubCodes[code])
		re.Close()
		if err != nil {
			return nil, err
		}
	}
	res.SubstLen = utf8.RuneCountInString(clean)

	res.Total = time.Since(start)
	return res, nil
}

// forEachMatch calls fn for every match of the global expression re,
// stepping past empty matches.
func forEachMatch(re *jsregexp.RegExp, input string, fn func(*jsregexp.ExecResult)) error {
	re.LastIndex = 0
	for {
		res, err := re.Exec(input)
		if err != nil {
			return err
		}
		if res == nil {
			return nil
		}
		fn(res)
		if res.Groups[0].Value == "" {
			re.LastIndex++
		}
	}
}

func countMatches(re *jsregexp.RegExp, input string) (int, error) {
	n := 0
	err := forEachMatch(re, input, func(*jsregexp.ExecResult) { n++ })
	return n, err
}

// replaceAll replaces every match of the global expression re with repl.
func replaceAll(re *jsregexp.RegExp, input, repl string) (string, error) {
	runes := []rune(input)
	var b strings.Builder
	last := 0
	err := forEachMatch(re, input, func(res *jsregexp.ExecResult) {
		b.WriteString(string(runes[last:res.Index]))
		b.WriteString(repl)
		last = res.Index + utf8.RuneCountInString(res.Groups[0].Value)
	})
	if err != nil {
		return "", err
	}
	b.WriteString(string(runes[last:]))
	return b.String(), nil
}

// newBenchRun summarizes the iterations of one engine. A variant fails
// when its count differs from baseline.
func newBenchRun(kind matcher.Kind, started time.Time, results []*dnaResult, baseline []int) *store.Run {
	run := &store.Run{
		Kind:      store.KindBench,
		Engine:    kind.String(),
		StartedAt: started,
		Total:     len(dnaVariants),
	}
	for _, res := range results {
		run.Duration += res.Total
	}

	first := results[0]
	for i, variant := range dnaVariants {
		var spent time.Duration
		for _, res := range results {
			spent += res.Times[i]
		}
		rr := store.RunResult{
			CaseID:   variant,
			Status:   "passed",
			Message:  fmt.Sprintf("%d matches", first.Counts[i]),
			Duration: spent / time.Duration(len(results)),
		}
		if baseline != nil && baseline[i] != first.Counts[i] {
			rr.Status = "failed"
			rr.Message = fmt.Sprintf("%d matches, expected %d", first.Counts[i], baseline[i])
		}
		if rr.Status == "passed" {
			run.Passed++
		} else {
			run.Failed++
		}
		run.Results = append(run.Results, rr)
	}
	return run
}

// =============================================================================
// HELPERS
// =============================================================================

func outputBenchHuman(cmd *cobra.Command, runs []*store.Run) {
	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "Engine: %s (%d iterations, %s total, %s mean)\n",
			run.Engine, benchIterations, run.Duration.Round(time.Microsecond),
			(run.Duration / time.Duration(benchIterations)).Round(time.Microsecond))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Variant\tResult\tMean\n")
		for _, res := range run.Results {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", res.CaseID, res.Message, res.Duration.Round(time.Microsecond))
		}
		w.Flush()
	}
}
