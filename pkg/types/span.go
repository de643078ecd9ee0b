package types

// Span is a character range [Start, End) - half-open interval.
// Offsets count code points, not bytes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no characters.
func (s Span) Empty() bool {
	return s.End <= s.Start
}
