package matcher

import (
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/prefilter"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// normalizeCaptures decides which groups JavaScript code may see.
//
// Backends keep the last value a group held even when a later repetition of
// an enclosing quantifier did not re-enter it, and they expose captures made
// inside negative lookarounds. Walking the groups in order, a group is
// visible only if it participated, is not inside a negative lookaround, and
// does not start before the previous visible group.
func normalizeCaptures(starts []int, negLook dialect.GroupSet) []bool {
	visible := make([]bool, len(starts))
	if len(starts) == 0 {
		return visible
	}
	visible[0] = starts[0] >= 0

	last := 0
	for i := 1; i < len(starts); i++ {
		if negLook.Has(i) || starts[i] < 0 || starts[i] < last {
			continue
		}
		visible[i] = true
		last = starts[i]
	}
	return visible
}

// region is the result of the last successful Find, in character offsets.
// A group that did not participate has start and end of -1.
type region struct {
	starts     []int
	ends       []int
	visible    []bool
	normalized bool
}

// engine holds the state every backend adapter shares: construction
// values, the bound input and the last match region.
type engine struct {
	pattern    types.Pattern
	groupCount int
	negLook    dialect.GroupSet

	input string
	bound bool

	// rejected is set when the keyword prefilter proved that the bound
	// input cannot match.
	pf       *prefilter.Prefilter
	rejected bool

	matched bool
	region  region

	// slice returns the input text between two character offsets
	slice func(start, end int) string
}

func newEngine(p types.Pattern, groupCount int, negLook dialect.GroupSet, opts Options) engine {
	e := engine{
		pattern:    p,
		groupCount: groupCount,
		negLook:    negLook,
	}
	if !opts.DisablePrefilter {
		e.pf = prefilter.ForPattern(expression(p), p.IgnoreCase)
	}
	return e
}

func (e *engine) Global() bool     { return e.pattern.Global }
func (e *engine) IgnoreCase() bool { return e.pattern.IgnoreCase }
func (e *engine) Multiline() bool  { return e.pattern.Multiline }
func (e *engine) Source() string   { return e.pattern.Source }

func (e *engine) Input() (string, bool) {
	return e.input, e.bound
}

// bind stores input and reports whether it differs from the bound one.
func (e *engine) bind(input string) bool {
	if e.bound && e.input == input {
		return false
	}
	e.input = input
	e.bound = true
	e.matched = false
	e.rejected = e.pf != nil && !e.pf.MayMatch([]byte(input))
	return true
}

// reset clears the match region before a search.
func (e *engine) reset() {
	e.matched = false
	e.region.normalized = false
	e.region.visible = e.region.visible[:0]
}

// record stores a successful match.
func (e *engine) record(starts, ends []int) {
	e.region.starts = starts
	e.region.ends = ends
	e.region.normalized = false
	e.matched = true
}

func (e *engine) mustMatch() {
	if !e.matched {
		panic(ErrInvalidState)
	}
}

func (e *engine) Start() int {
	e.mustMatch()
	return e.region.starts[0]
}

func (e *engine) End() int {
	e.mustMatch()
	return e.region.ends[0]
}

func (e *engine) GroupCount() int {
	e.mustMatch()
	return e.groupCount
}

func (e *engine) Group(n int) (string, bool) {
	e.mustMatch()
	if n < 0 || n > e.groupCount || n >= len(e.region.starts) {
		return "", false
	}
	if !e.region.normalized {
		e.region.visible = normalizeCaptures(e.region.starts, e.negLook)
		e.region.normalized = true
	}
	if !e.region.visible[n] {
		return "", false
	}
	return e.slice(e.region.starts[n], e.region.ends[n]), true
}
