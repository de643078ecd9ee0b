package prefilter

import (
	"github.com/cloudflare/ahocorasick"
)

// Prefilter uses Aho-Corasick to reject inputs that cannot match a pattern.
// Every match of the pattern contains at least one of the keywords, so an
// input without any keyword is skipped without running the backend.
type Prefilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

// New creates a prefilter from keywords. Duplicate and empty keywords are
// ignored.
func New(keywords []string) *Prefilter {
	pf := &Prefilter{}

	seen := make(map[string]bool)
	for _, kw := range keywords {
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		pf.keywords = append(pf.keywords, kw)
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}
	return pf
}

// ForPattern builds a prefilter for a JavaScript regular expression source.
// It returns nil when no keyword set can be derived.
func ForPattern(source string, ignoreCase bool) *Prefilter {
	keywords, ok := Extract(source, ignoreCase)
	if !ok {
		return nil
	}
	return New(keywords)
}

// Keywords returns the keywords in insertion order.
func (pf *Prefilter) Keywords() []string {
	return pf.keywords
}

// MayMatch reports whether content contains any keyword. A nil prefilter or
// one without keywords accepts everything.
func (pf *Prefilter) MayMatch(content []byte) bool {
	if pf == nil || pf.matcher == nil {
		return true
	}
	return len(pf.matcher.Match(content)) > 0
}
