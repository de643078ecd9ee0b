package matcher

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex/meta"
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/position"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// CoregexMatcher implements Matcher using the coregex meta engine.
//
// coregex searches UTF-8 bytes, so every bound input gets a position.Index
// that converts the caller's character offsets to byte offsets and back.
// The search always runs over the full input from a byte offset, which
// keeps anchors and word boundaries aware of the text before the start.
//
// coregex steps through character classes and the dot one byte at a time,
// which splits multi-byte characters, and its multiline anchors only see
// '\n'. Inputs that are not pure ASCII, and multiline searches over input
// holding a '\r', are therefore run by a regexp2 matcher compiled from the
// same pattern.
//
// Thread Safety: CoregexMatcher is NOT safe for concurrent use.
type CoregexMatcher struct {
	engine

	opts       Options
	re         *meta.Engine
	translated string
	prevForce  bool

	data []byte
	idx  *position.Index

	// lineBreaks is set when the input holds a line terminator other
	// than '\n'
	lineBreaks bool

	// wide searches non-ASCII inputs; built on first use
	wide    *Regexp2Matcher
	wideErr error
}

// NewCoregex compiles p for coregex. Patterns with backreferences or
// lookaround fail with *CompileError.
func NewCoregex(p types.Pattern, opts Options) (*CoregexMatcher, error) {
	opts = opts.withDefaults()
	tr := translateRE2(p, p.Multiline)

	m := &CoregexMatcher{
		engine: newEngine(p, tr.GroupCount, tr.NegLookahead, opts),
		opts:   opts,
	}
	m.slice = m.text

	if err := m.compile(tr.Source); err != nil {
		return nil, err
	}
	return m, nil
}

func translateRE2(p types.Pattern, multiline bool) dialect.Translation {
	return dialect.Translate(dialect.RE2, expression(p), dialect.Options{
		BOMWhitespace: p.BOMWhitespace,
		Multiline:     multiline,
		IgnoreCase:    p.IgnoreCase,
	})
}

func (m *CoregexMatcher) compile(translated string) error {
	re, err := meta.Compile(translated)
	if err != nil {
		return &CompileError{Engine: KindCoregex, Source: m.pattern.Source, Translated: translated, Err: err}
	}
	m.re = re
	m.translated = translated
	return nil
}

// Translated returns the pattern as compiled by coregex.
func (m *CoregexMatcher) Translated() string {
	return m.translated
}

// SetInput binds input and rebuilds the position index.
func (m *CoregexMatcher) SetInput(input string) {
	if m.bind(input) {
		m.data = []byte(input)
		m.idx = position.New(input)
		m.lineBreaks = strings.ContainsAny(input, "\r\xe2\x80\xa8\xe2\x80\xa9")
	}
}

// Find searches from character offset start.
func (m *CoregexMatcher) Find(start int, forceMultiline bool) (bool, error) {
	if err := m.prepare(forceMultiline); err != nil {
		return false, err
	}
	if m.rejected || start < 0 || start > m.idx.CharLen() {
		return false, nil
	}
	return m.search(start, forceMultiline)
}

// needsWide reports whether the bound input must be searched by regexp2.
func (m *CoregexMatcher) needsWide(forceMultiline bool) bool {
	return !m.idx.ASCII() || m.lineAnchorsDiffer(forceMultiline)
}

// lineAnchorsDiffer reports whether multiline anchors would treat the bound
// input differently from RE2's (?m).
func (m *CoregexMatcher) lineAnchorsDiffer(forceMultiline bool) bool {
	return m.lineBreaks && (m.pattern.Multiline || forceMultiline)
}

// search finds the next match at or after character offset start, using
// coregex where it agrees with JavaScript and the regexp2 matcher otherwise.
func (m *CoregexMatcher) search(start int, forceMultiline bool) (bool, error) {
	if !m.needsWide(forceMultiline) {
		return m.findAt(m.idx.ByteOffset(start)), nil
	}
	wide := m.wideMatcher()
	if wide == nil {
		return m.findAt(m.idx.ByteOffset(start)), nil
	}

	wide.SetInput(m.input)
	ok, err := wide.Find(start, forceMultiline)
	if err != nil || !ok {
		return false, err
	}
	m.record(wide.region.starts, wide.region.ends)
	return true, nil
}

// wideMatcher returns the regexp2 matcher used for non-ASCII input, or nil
// when regexp2 rejects the pattern.
func (m *CoregexMatcher) wideMatcher() *Regexp2Matcher {
	if m.wide == nil && m.wideErr == nil {
		opts := m.opts
		opts.DisablePrefilter = true
		m.wide, m.wideErr = NewRegexp2(m.pattern, opts)
		if m.wideErr != nil {
			fmt.Fprintf(m.opts.Diagnostics, "[coregex] %v, non-ASCII input is searched byte-wise\n", m.wideErr)
		}
	}
	return m.wide
}

// findAt runs the search from byte offset at and records the match.
func (m *CoregexMatcher) findAt(at int) bool {
	match := m.re.FindSubmatchAt(m.data, at)
	if match == nil {
		return false
	}

	starts := make([]int, m.groupCount+1)
	ends := make([]int, m.groupCount+1)
	n := match.NumCaptures()
	for i := range starts {
		starts[i], ends[i] = -1, -1
		if i >= n {
			continue
		}
		if span := match.GroupIndex(i); len(span) >= 2 && span[0] >= 0 {
			starts[i] = m.idx.CharOffset(span[0])
			ends[i] = m.idx.CharOffset(span[1])
		}
	}
	m.record(starts, ends)
	return true
}

func (m *CoregexMatcher) text(start, end int) string {
	return m.input[m.idx.ByteOffset(start):m.idx.ByteOffset(end)]
}

// Close is a no-op; coregex holds no native resources.
func (m *CoregexMatcher) Close() error {
	return nil
}
