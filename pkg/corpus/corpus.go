// Package corpus holds conformance cases for the translators and the
// match orchestrator, and runs them against an engine.
package corpus

import (
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
)

// Engine features a case may depend on.
const (
	FeatureBackreferences = "backreferences"
	FeatureLookaround     = "lookaround"
)

// Expected construction failures.
const (
	ErrorFlag    = "flag"
	ErrorCompile = "compile"
)

// Translation checks the output of a dialect translator.
type Translation struct {
	ID        string
	Dialect   dialect.Dialect
	Pattern   string
	BOM       bool
	Multiline bool
	Expected  string
}

// Step is the expected outcome of one Exec call. A nil *Step expects no
// match.
type Step struct {
	Index     int
	Groups    []*string // nil entries are groups that did not participate
	LastIndex *float64  // checked when set
}

// Execution runs a pattern against an input one or more times.
type Execution struct {
	ID          string
	Description string
	Pattern     string
	Flags       string
	Literal     bool
	Input       string
	LastIndex   float64
	Requires    []string
	Error       string // ErrorFlag or ErrorCompile when construction must fail
	Steps       []*Step
}

// Supported reports whether engine kind has every feature the case needs.
func (e *Execution) Supported(kind matcher.Kind) (bool, string) {
	if kind == matcher.KindRegexp2 {
		return true, ""
	}
	for _, f := range e.Requires {
		switch f {
		case FeatureBackreferences, FeatureLookaround:
			return false, kind.String() + " does not support " + f
		}
	}
	return true, ""
}

// Corpus is a set of cases.
type Corpus struct {
	Translations []*Translation
	Executions   []*Execution
}

// Len returns the number of cases.
func (c *Corpus) Len() int {
	return len(c.Translations) + len(c.Executions)
}

// Merge appends the cases of other to c. IDs are not checked for
// duplicates.
func (c *Corpus) Merge(other *Corpus) {
	c.Translations = append(c.Translations, other.Translations...)
	c.Executions = append(c.Executions, other.Executions...)
}
