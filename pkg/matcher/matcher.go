package matcher

import (
	"github.com/praetorian-inc/jsregexp/pkg/literal"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// Matcher is a compiled JavaScript regular expression bound to one backend.
//
// Offsets are character offsets into the bound input. A Matcher holds the
// current input and the last match, so it is NOT safe for concurrent use:
// create one instance per goroutine.
type Matcher interface {
	// Global, IgnoreCase, Multiline and Source return the construction values.
	Global() bool
	IgnoreCase() bool
	Multiline() bool
	Source() string

	// SetInput binds a new subject and clears the previous match.
	// Binding the same string again is a no-op.
	SetInput(input string)

	// Input returns the bound subject and whether one is bound.
	Input() (string, bool)

	// Find searches for the next match at or after character offset start.
	// forceMultiline turns on multiline matching for this call when the
	// pattern itself is not multiline.
	Find(start int, forceMultiline bool) (bool, error)

	// Start and End return the character offsets of the whole match.
	// They panic with ErrInvalidState unless the last Find succeeded.
	Start() int
	End() int

	// GroupCount returns the number of capture groups in the source.
	// It panics with ErrInvalidState unless the last Find succeeded.
	GroupCount() int

	// Group returns the text of group n (0 is the whole match) and whether
	// the group participated in the match.
	// It panics with ErrInvalidState unless the last Find succeeded.
	Group(n int) (string, bool)

	// Close releases resources (e.g., Hyperscan scratch space).
	Close() error
}

// New creates a Matcher for cfg.Pattern.
//
// Case-sensitive patterns that are plain text use substring search instead
// of a backend. Everything else is compiled by the backend named in
// cfg.Engine. Compilation failures are returned as *CompileError.
func New(cfg Config) (Matcher, error) {
	p := cfg.Pattern
	opts := cfg.Options.withDefaults()

	if !p.IgnoreCase {
		if p.Literal {
			return NewIndexOf(p, p.Source), nil
		}
		if text, ok := literal.CompileTextOnly(p.Source); ok {
			return NewIndexOf(p, text), nil
		}
	}

	var (
		m   Matcher
		err error
	)
	switch cfg.Engine {
	case KindCoregex:
		m, err = NewCoregex(p, opts)
	case KindHyperscan:
		m, err = NewHyperscan(p, opts)
	default:
		m, err = NewRegexp2(p, opts)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// expression returns the regular expression source to translate for p.
// Literal patterns are escaped so that they match themselves.
func expression(p types.Pattern) string {
	if p.Literal {
		return literal.Escape(p.Source)
	}
	return p.Source
}
