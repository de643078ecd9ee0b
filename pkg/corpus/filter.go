package corpus

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// FilterConfig specifies include and exclude globs for case filtering.
// In a glob, * matches any run of characters, ? matches zero or one
// character and . matches exactly one.
type FilterConfig struct {
	Include []string // Glob patterns - only matching cases included
	Exclude []string // Glob patterns - matching cases excluded
}

// ParsePatterns splits a comma-separated string into individual patterns.
// Patterns are trimmed of whitespace.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude globs to case IDs.
// Include is applied first, then exclude.
// Empty include means "include all".
func Filter(c *Corpus, config FilterConfig) *Corpus {
	keep := func(id string) bool {
		if len(config.Include) > 0 && !matchesAny(id, config.Include) {
			return false
		}
		return !matchesAny(id, config.Exclude)
	}

	out := &Corpus{}
	for _, t := range c.Translations {
		if keep(t.ID) {
			out.Translations = append(out.Translations, t)
		}
	}
	for _, e := range c.Executions {
		if keep(e.ID) {
			out.Executions = append(out.Executions, e)
		}
	}
	return out
}

func matchesAny(id string, globs []string) bool {
	for _, g := range globs {
		if wildcard.Match(g, id) {
			return true
		}
	}
	return false
}
