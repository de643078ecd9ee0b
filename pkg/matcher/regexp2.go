package matcher

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/position"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// Regexp2Matcher implements Matcher using regexp2 in ECMAScript mode.
//
// regexp2 matches over runes, so character offsets are used directly. A
// position map is only needed to slice group text out of the input. Multiline anchors are written into the pattern
// by the translator, so a forced multiline search recompiles from a fresh
// translation.
//
// Thread Safety: Regexp2Matcher is NOT safe for concurrent use.
type Regexp2Matcher struct {
	engine

	opts       Options
	re         *regexp2.Regexp
	translated string
	prevForce  bool

	runes []rune
	idx   *position.Index
}

// NewRegexp2 compiles p for regexp2.
func NewRegexp2(p types.Pattern, opts Options) (*Regexp2Matcher, error) {
	opts = opts.withDefaults()
	tr := dialect.Translate(dialect.DotNet, expression(p), dialect.Options{
		BOMWhitespace: p.BOMWhitespace,
		Multiline:     p.Multiline,
	})

	m := &Regexp2Matcher{
		engine: newEngine(p, tr.GroupCount, tr.NegLookahead, opts),
		opts:   opts,
	}
	m.slice = m.text

	if err := m.compile(tr.Source); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Regexp2Matcher) compile(translated string) error {
	var flags regexp2.RegexOptions = regexp2.ECMAScript
	if m.pattern.IgnoreCase {
		flags |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(translated, flags)
	if err != nil {
		return &CompileError{Engine: KindRegexp2, Source: m.pattern.Source, Translated: translated, Err: err}
	}
	// Set timeout to prevent catastrophic backtracking
	if m.opts.MatchTimeout > 0 {
		re.MatchTimeout = m.opts.MatchTimeout
	}
	m.re = re
	m.translated = translated
	return nil
}

// Translated returns the pattern as compiled by regexp2.
func (m *Regexp2Matcher) Translated() string {
	return m.translated
}

// SetInput binds input.
func (m *Regexp2Matcher) SetInput(input string) {
	if m.bind(input) {
		m.runes = []rune(input)
		m.idx = position.New(input)
	}
}

// Find searches from character offset start.
func (m *Regexp2Matcher) Find(start int, forceMultiline bool) (bool, error) {
	if !m.pattern.Multiline && m.prevForce != forceMultiline {
		tr := dialect.Translate(dialect.DotNet, expression(m.pattern), dialect.Options{
			BOMWhitespace: m.pattern.BOMWhitespace,
			Multiline:     forceMultiline,
		})
		if err := m.compile(tr.Source); err != nil {
			return false, err
		}
	}
	m.prevForce = forceMultiline

	m.reset()
	if !m.bound {
		return false, ErrNoInput
	}
	if m.rejected || start < 0 || start > len(m.runes) {
		return false, nil
	}

	match, err := m.re.FindRunesMatchStartingAt(m.runes, start)
	if err != nil {
		return false, fmt.Errorf("regexp2 match failed: %w", err)
	}
	if match == nil {
		return false, nil
	}

	groups := match.Groups()
	starts := make([]int, m.groupCount+1)
	ends := make([]int, m.groupCount+1)
	for i := range starts {
		starts[i], ends[i] = -1, -1
		if i < len(groups) && len(groups[i].Captures) > 0 {
			starts[i] = groups[i].Index
			ends[i] = groups[i].Index + groups[i].Length
		}
	}
	m.record(starts, ends)
	return true, nil
}

// text slices the bound input, so invalid UTF-8 bytes come back unchanged.
func (m *Regexp2Matcher) text(start, end int) string {
	return m.input[m.idx.ByteOffset(start):m.idx.ByteOffset(end)]
}

// Close is a no-op; regexp2 holds no native resources.
func (m *Regexp2Matcher) Close() error {
	return nil
}
