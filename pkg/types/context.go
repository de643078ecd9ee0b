package types

import "github.com/praetorian-inc/jsregexp/pkg/position"

// Context contains the text around a match.
type Context struct {
	Left  string // text before the match
	Match string // the matched text
	Right string // text after the match
}

// NewContext splits input around span. from is the character offset the
// left context starts at: 0 for standard behaviour, or the search start for
// the JavaScript 1.2 left context. Every part is a substring of input.
func NewContext(input string, from int, span Span) Context {
	idx := position.New(input)
	from, start, end := idx.ByteOffset(from), idx.ByteOffset(span.Start), idx.ByteOffset(span.End)
	if end < start {
		end = start
	}
	if from > start {
		from = start
	}
	return Context{
		Left:  input[from:start],
		Match: input[start:end],
		Right: input[end:],
	}
}
