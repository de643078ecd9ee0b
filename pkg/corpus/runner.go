package corpus

import (
	"errors"
	"fmt"
	"time"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// Status represents the outcome of a case
type Status int

const (
	StatusPassed  Status = iota // Case behaved as expected
	StatusFailed                // Case produced a different result
	StatusSkipped               // Engine lacks a feature the case requires
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result contains the outcome of a single case
type Result struct {
	CaseID   string        // Case identifier
	Status   Status        // Outcome
	Message  string        // Why the case failed or was skipped
	Duration time.Duration // Time spent on this case
}

// Summary provides aggregate statistics across all cases
type Summary struct {
	Total   int // Total number of cases run
	Passed  int // Number of cases that passed
	Failed  int // Number of cases that failed
	Skipped int // Number of cases skipped
}

// Report contains per-case results and the summary of a run
type Report struct {
	Engine   matcher.Kind
	Results  []Result
	Summary  Summary
	Duration time.Duration
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes cases on one engine.
type Runner struct {
	engine  matcher.Kind
	options matcher.Options
}

// NewRunner creates a runner for engine kind. It fails when kind is not part
// of this build.
func NewRunner(kind matcher.Kind, opts matcher.Options) (*Runner, error) {
	if kind == matcher.KindHyperscan && !matcher.HyperscanAvailable() {
		return nil, fmt.Errorf("engine %s: %w", kind, matcher.ErrEngineUnavailable)
	}
	return &Runner{engine: kind, options: opts}, nil
}

// Run executes every case in c.
func (r *Runner) Run(c *Corpus) *Report {
	start := time.Now()
	report := &Report{Engine: r.engine}

	for _, t := range c.Translations {
		report.add(timed(t.ID, func() (Status, string) { return runTranslation(t) }))
	}
	for _, e := range c.Executions {
		report.add(timed(e.ID, func() (Status, string) { return r.runExecution(e) }))
	}

	report.Duration = time.Since(start)
	return report
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	r.Summary.Total++
	switch res.Status {
	case StatusPassed:
		r.Summary.Passed++
	case StatusFailed:
		r.Summary.Failed++
	case StatusSkipped:
		r.Summary.Skipped++
	}
}

func timed(id string, fn func() (Status, string)) Result {
	start := time.Now()
	status, msg := fn()
	return Result{
		CaseID:   id,
		Status:   status,
		Message:  msg,
		Duration: time.Since(start),
	}
}

func runTranslation(t *Translation) (Status, string) {
	got := dialect.Translate(t.Dialect, t.Pattern, dialect.Options{
		BOMWhitespace: t.BOM,
		Multiline:     t.Multiline,
	})
	if got.Source != t.Expected {
		return StatusFailed, fmt.Sprintf("translated to %q, expected %q", got.Source, t.Expected)
	}
	return StatusPassed, ""
}

func (r *Runner) runExecution(e *Execution) (Status, string) {
	if ok, why := e.Supported(r.engine); !ok {
		return StatusSkipped, why
	}

	opts := []jsregexp.Option{
		jsregexp.WithEngine(r.engine),
		jsregexp.WithMatcherOptions(r.options),
	}
	newFn := jsregexp.New
	if e.Literal {
		newFn = jsregexp.NewLiteral
	}
	re, err := newFn(e.Pattern, e.Flags, opts...)
	if status, msg, done := checkConstruction(e, err); done {
		return status, msg
	}
	defer re.Close()

	re.LastIndex = e.LastIndex
	for i, step := range e.Steps {
		res, err := re.Exec(e.Input)
		if err != nil {
			return StatusFailed, fmt.Sprintf("step %d: %v", i, err)
		}
		if msg := compareStep(step, res, re); msg != "" {
			return StatusFailed, fmt.Sprintf("step %d: %s", i, msg)
		}
	}
	return StatusPassed, ""
}

// checkConstruction compares a construction error with the expected one.
// done is true when the case is finished.
func checkConstruction(e *Execution, err error) (Status, string, bool) {
	var fe *jsregexp.FlagError
	var ce *matcher.CompileError

	switch {
	case e.Error == "" && err == nil:
		return 0, "", false
	case e.Error == "":
		return StatusFailed, fmt.Sprintf("unexpected error: %v", err), true
	case err == nil:
		return StatusFailed, fmt.Sprintf("expected %s error", e.Error), true
	case e.Error == ErrorFlag && errors.As(err, &fe):
		return StatusPassed, "", true
	case e.Error == ErrorCompile && errors.As(err, &ce):
		return StatusPassed, "", true
	default:
		return StatusFailed, fmt.Sprintf("expected %s error, got: %v", e.Error, err), true
	}
}

func compareStep(want *Step, got *jsregexp.ExecResult, re *jsregexp.RegExp) string {
	if want == nil {
		if got != nil {
			return fmt.Sprintf("expected no match, got match at %d", got.Index)
		}
		if re.Global() && re.LastIndex != 0 {
			return fmt.Sprintf("lastIndex %v after a miss, expected 0", re.LastIndex)
		}
		return ""
	}

	if got == nil {
		return fmt.Sprintf("expected match at %d, got none", want.Index)
	}
	if got.Index != want.Index {
		return fmt.Sprintf("index %d, expected %d", got.Index, want.Index)
	}
	if msg := compareGroups(want.Groups, types.Values(got.Groups)); msg != "" {
		return msg
	}
	if want.LastIndex != nil && re.LastIndex != *want.LastIndex {
		return fmt.Sprintf("lastIndex %v, expected %v", re.LastIndex, *want.LastIndex)
	}
	return ""
}

func compareGroups(want, got []*string) string {
	if len(want) != len(got) {
		return fmt.Sprintf("%d groups, expected %d", len(got), len(want))
	}
	for i := range want {
		switch {
		case want[i] == nil && got[i] == nil:
		case want[i] == nil:
			return fmt.Sprintf("group %d is %q, expected undefined", i, *got[i])
		case got[i] == nil:
			return fmt.Sprintf("group %d is undefined, expected %q", i, *want[i])
		case *want[i] != *got[i]:
			return fmt.Sprintf("group %d is %q, expected %q", i, *got[i], *want[i])
		}
	}
	return ""
}
