//go:build cgo && hyperscan

package matcher

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/flier/gohs/hyperscan"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// HyperscanMatcher implements Matcher using Hyperscan.
// Two-stage pipeline:
//  1. Hyperscan scans each bound input once, in prefilter mode, and records
//     every candidate match end offset (fast, no capture groups)
//  2. coregex confirms candidates and extracts offsets and capture groups
//
// A Find whose start lies beyond the last candidate end returns false
// without running stage 2. Stage 1 is not consulted for multiline searches
// over input with '\r', U+2028 or U+2029, which Hyperscan does not treat as
// line breaks.
type HyperscanMatcher struct {
	*CoregexMatcher

	db      hyperscan.BlockDatabase // Compiled pattern
	scratch *hyperscan.Scratch      // Per-scan scratch space

	ends    []int // candidate end byte offsets for the bound input, sorted
	scanned bool  // false when stage 1 was skipped for the bound input
}

// NewHyperscan creates a Hyperscan-based matcher.
func NewHyperscan(p types.Pattern, opts Options) (Matcher, error) {
	confirm, err := NewCoregex(p, opts)
	if err != nil {
		return nil, err
	}

	// Stage 1 uses the case-sensitive, single-line translation with flags:
	// - PrefilterMode: accept constructs Hyperscan cannot run exactly, as a superset
	// - MultiLine: ^/$ at line boundaries, a superset of single-line anchors
	// - Utf8Mode: the input is UTF-8
	// - AllowEmpty: patterns such as a* may match the empty string
	stage1 := p
	stage1.IgnoreCase = false
	expr := translateRE2(stage1, false).Source
	flags := hyperscan.PrefilterMode | hyperscan.MultiLine | hyperscan.Utf8Mode | hyperscan.AllowEmpty
	if p.IgnoreCase {
		flags |= hyperscan.Caseless
	}

	hp := hyperscan.NewPattern(expr, flags)
	hp.Id = 0

	// Compile database
	db, err := hyperscan.NewBlockDatabase(hp)
	if err != nil {
		return nil, &CompileError{Engine: KindHyperscan, Source: p.Source, Translated: expr, Err: err}
	}

	// Allocate scratch space
	scratch, err := hyperscan.NewScratch(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to allocate Hyperscan scratch: %w", err)
	}

	return &HyperscanMatcher{
		CoregexMatcher: confirm,
		db:             db,
		scratch:        scratch,
	}, nil
}

// SetInput binds input and runs stage 1 over it.
func (m *HyperscanMatcher) SetInput(input string) {
	if cur, ok := m.Input(); ok && cur == input {
		return
	}
	m.CoregexMatcher.SetInput(input)

	m.ends = m.ends[:0]
	m.scanned = false
	if m.rejected {
		return
	}
	if !utf8.ValidString(input) {
		fmt.Fprintf(m.opts.Diagnostics, "[hyperscan] input is not valid UTF-8, skipping prefilter scan\n")
		return
	}

	onMatch := func(id uint, from, to uint64, flags uint, context interface{}) error {
		m.ends = append(m.ends, int(to))
		return nil
	}
	if err := m.db.Scan(m.data, m.scratch, onMatch, nil); err != nil {
		fmt.Fprintf(m.opts.Diagnostics, "[hyperscan] scan failed, skipping prefilter: %v\n", err)
		m.ends = m.ends[:0]
		return
	}
	sort.Ints(m.ends)
	m.scanned = true
}

// Find rejects searches with no candidate end at or after start, then
// confirms with coregex.
func (m *HyperscanMatcher) Find(start int, forceMultiline bool) (bool, error) {
	if err := m.prepare(forceMultiline); err != nil {
		return false, err
	}
	if m.rejected || start < 0 || start > m.idx.CharLen() {
		return false, nil
	}
	at := m.idx.ByteOffset(start)
	if m.scanned && !m.lineAnchorsDiffer(forceMultiline) && sort.SearchInts(m.ends, at) == len(m.ends) {
		return false, nil
	}
	return m.search(start, forceMultiline)
}

// Close releases resources.
func (m *HyperscanMatcher) Close() error {
	if m.scratch != nil {
		if err := m.scratch.Free(); err != nil {
			return fmt.Errorf("failed to free scratch: %w", err)
		}
		m.scratch = nil
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		m.db = nil
	}
	return nil
}
