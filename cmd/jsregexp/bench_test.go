package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBenchCmd creates a fresh bench command for testing
func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "bench",
		RunE: runBench,
	}
	cmd.Flags().StringVarP(&benchEngine, "engine", "e", "all", "Engine")
	cmd.Flags().IntVarP(&benchIterations, "iterations", "n", 5, "Iterations")
	cmd.Flags().IntVar(&benchLines, "lines", 1000, "Lines")
	cmd.Flags().StringVar(&benchDB, "db", "", "Database")
	cmd.Flags().StringVar(&benchFormat, "format", "human", "Output format")
	return cmd
}

func TestDNAInput(t *testing.T) {
	input := dnaInput(10)
	lines := strings.Split(strings.TrimSuffix(input, "\n"), "\n")
	require.Len(t, lines, 12)

	assert.Equal(t, ">ONE Homo sapiens alu", lines[0])
	assert.Equal(t, ">TWO IUB ambiguity codes", lines[6])
	for i, line := range lines {
		if i == 0 || i == 6 {
			continue
		}
		assert.Len(t, line, 60)
		assert.Empty(t, strings.Trim(line, "acgt"))
	}
	assert.Equal(t, input, dnaInput(10), "generator must be deterministic")
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		literal bool
		input   string
		repl    string
		want    string
	}{
		{"strip headers", `>.*\n|\n`, false, ">one\nac\ngt\n>two\nca\n", "", "acgtca"},
		{"empty matches", `x*`, false, "ab", "-", "-a-b-"},
		{"literal", `B`, true, "aBcB", "(c|g|t)", "a(c|g|t)c(c|g|t)"},
		{"multibyte", `\xe9`, false, "caf\xc3\xa9 \xc3\xa9t\xc3\xa9", "e", "cafe ete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newFn := jsregexp.New
			if tt.literal {
				newFn = jsregexp.NewLiteral
			}
			re, err := newFn(tt.pattern, "g")
			require.NoError(t, err)
			defer re.Close()

			got, err := replaceAll(re, tt.input, tt.repl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegexpDNA_EnginesAgree(t *testing.T) {
	input := dnaInput(200)
	opts := matcher.Options{Diagnostics: io.Discard}

	var baseline *dnaResult
	for _, kind := range matcher.Kinds() {
		res, err := regexpDNA(input, kind, opts)
		require.NoError(t, err, kind.String())
		require.Len(t, res.Counts, len(dnaVariants))

		assert.Equal(t, 3*len(input), res.InputLen)
		assert.Equal(t, 3*200*60, res.CleanLen)
		assert.Equal(t, res.CleanLen, res.SubstLen)

		if baseline == nil {
			baseline = res
			continue
		}
		assert.Equal(t, baseline.Counts, res.Counts, kind.String())
	}
}

func TestNewBenchRun(t *testing.T) {
	times := func(d time.Duration) []time.Duration {
		out := make([]time.Duration, len(dnaVariants))
		for i := range out {
			out[i] = d
		}
		return out
	}
	counts := []int{1, 0, 0, 0, 0, 0, 0, 0, 2}
	results := []*dnaResult{
		{Counts: counts, Times: times(2 * time.Millisecond), Total: 30 * time.Millisecond},
		{Counts: counts, Times: times(4 * time.Millisecond), Total: 50 * time.Millisecond},
	}
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	run := newBenchRun(matcher.KindCoregex, started, results, nil)
	assert.Equal(t, store.KindBench, run.Kind)
	assert.Equal(t, "coregex", run.Engine)
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, 80*time.Millisecond, run.Duration)
	assert.Equal(t, len(dnaVariants), run.Total)
	assert.Equal(t, len(dnaVariants), run.Passed)
	require.Len(t, run.Results, len(dnaVariants))
	assert.Equal(t, dnaVariants[0], run.Results[0].CaseID)
	assert.Equal(t, "1 matches", run.Results[0].Message)
	assert.Equal(t, 3*time.Millisecond, run.Results[0].Duration)

	baseline := []int{1, 0, 0, 0, 0, 0, 0, 0, 3}
	run = newBenchRun(matcher.KindCoregex, started, results, baseline)
	assert.Equal(t, 8, run.Passed)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, "failed", run.Results[8].Status)
	assert.Equal(t, "2 matches, expected 3", run.Results[8].Message)
}

func TestBenchCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bench.db")

	var buf bytes.Buffer
	cmd := newBenchCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--engine", "regexp2", "-n", "2", "--lines", "50", "--db", dbPath, "--format", "json"})

	require.NoError(t, cmd.Execute())

	var runs []store.Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "regexp2", runs[0].Engine)
	assert.Equal(t, store.KindBench, runs[0].Kind)
	assert.Equal(t, len(dnaVariants), runs[0].Passed)

	s, err := store.NewSQLite(dbPath)
	require.NoError(t, err)
	defer s.Close()
	stored, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, runs[0].UUID, stored[0].UUID)
}

func TestBenchCmd_Human(t *testing.T) {
	var buf bytes.Buffer
	cmd := newBenchCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--engine", "all", "-n", "1", "--lines", "20"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Engine: regexp2 (1 iterations")
	assert.Contains(t, output, "Engine: coregex (1 iterations")
	assert.Contains(t, output, dnaVariants[0])
}

func TestBenchCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero iterations", []string{"-n", "0"}, "at least 1"},
		{"unknown engine", []string{"--engine", "pcre"}, "unknown engine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newBenchCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
