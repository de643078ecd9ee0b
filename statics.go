package jsregexp

import "github.com/praetorian-inc/jsregexp/pkg/types"

// Version selects language-version dependent behaviour of the statics.
type Version int

const (
	// VersionDefault is ECMAScript behaviour.
	VersionDefault Version = 0
	// Version12 is JavaScript 1.2, where LeftContext starts at the
	// position the search started from instead of at 0.
	Version12 Version = 120
)

// Statics are the legacy RegExp properties ($_, $&, $`, $', $+ and $1-$9)
// updated by every successful execution.
type Statics struct {
	// Multiline forces multiline matching for every execution (RegExp.multiline).
	Multiline bool

	// Version selects the LeftContext behaviour.
	Version Version

	Input        string
	LastMatch    string
	LeftContext  string
	RightContext string
	LastParen    string

	// Parens holds groups 1..n of the last match; nil when the pattern has
	// no groups.
	Parens []types.Group
}

// record updates s after a match of span in input, found by a search that
// started at character offset from.
func (s *Statics) record(input string, from int, span types.Span, groups []types.Group) {
	s.Input = input

	s.Parens = nil
	if len(groups) > 1 {
		s.Parens = append([]types.Group(nil), groups[1:]...)
	}
	s.LastParen = types.LastParen(groups)

	left := 0
	if s.Version == Version12 {
		left = from
	}
	ctx := types.NewContext(input, left, span)
	s.LastMatch = ctx.Match
	s.LeftContext = ctx.Left
	s.RightContext = ctx.Right
}

// Paren returns group n of the last match ($1 is Paren(1)), or "" when
// there is no such group.
func (s *Statics) Paren(n int) string {
	if n < 1 || n > len(s.Parens) {
		return ""
	}
	return s.Parens[n-1].Value
}
