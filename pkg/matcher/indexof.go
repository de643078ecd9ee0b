package matcher

import (
	"strings"

	"github.com/praetorian-inc/jsregexp/pkg/position"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// IndexOfMatcher matches a plain string with substring search.
//
// It serves case-sensitive patterns that are literal or contain no regular
// expression syntax. There are no capture groups and the multiline flag
// has no effect.
type IndexOfMatcher struct {
	engine

	text string
	idx  *position.Index
}

// NewIndexOf creates a matcher that finds text. p supplies the flags and
// source reported by the accessors.
func NewIndexOf(p types.Pattern, text string) *IndexOfMatcher {
	m := &IndexOfMatcher{
		engine: newEngine(p, 0, nil, Options{DisablePrefilter: true}),
		text:   text,
	}
	m.slice = m.between
	return m
}

// Text returns the string being searched for.
func (m *IndexOfMatcher) Text() string {
	return m.text
}

// SetInput binds input.
func (m *IndexOfMatcher) SetInput(input string) {
	if m.bind(input) {
		m.idx = position.New(input)
	}
}

// Find searches for the text at or after character offset start.
func (m *IndexOfMatcher) Find(start int, _ bool) (bool, error) {
	m.reset()
	if !m.bound {
		return false, ErrNoInput
	}
	if start < 0 || start > m.idx.CharLen() {
		return false, nil
	}

	from := m.idx.ByteOffset(start)
	i := strings.Index(m.input[from:], m.text)
	if i < 0 {
		return false, nil
	}
	s, e := m.idx.CharSpan(from+i, from+i+len(m.text))
	m.record([]int{s}, []int{e})
	return true, nil
}

func (m *IndexOfMatcher) between(start, end int) string {
	return m.input[m.idx.ByteOffset(start):m.idx.ByteOffset(end)]
}

// Close is a no-op.
func (m *IndexOfMatcher) Close() error {
	return nil
}
