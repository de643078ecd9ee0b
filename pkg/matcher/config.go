package matcher

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// Kind selects a backend engine.
type Kind int

const (
	// KindRegexp2 is the backtracking regexp2 engine. It supports the full
	// JavaScript syntax including backreferences and lookaround.
	KindRegexp2 Kind = iota
	// KindCoregex is the linear-time coregex engine. It rejects
	// backreferences and lookaround at compile time.
	KindCoregex
	// KindHyperscan is a Hyperscan prefilter confirmed by coregex.
	// It requires CGO and the hyperscan build tag.
	KindHyperscan
)

// String returns the engine name.
func (k Kind) String() string {
	switch k {
	case KindRegexp2:
		return "regexp2"
	case KindCoregex:
		return "coregex"
	case KindHyperscan:
		return "hyperscan"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps an engine name to a Kind. The empty string selects the
// default engine.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "regexp2", "default":
		return KindRegexp2, nil
	case "coregex", "re2":
		return KindCoregex, nil
	case "hyperscan", "hs":
		return KindHyperscan, nil
	default:
		return 0, fmt.Errorf("unknown engine %q (expected regexp2, coregex or hyperscan)", name)
	}
}

// Kinds returns every engine kind usable in this build.
func Kinds() []Kind {
	kinds := []Kind{KindRegexp2, KindCoregex}
	if HyperscanAvailable() {
		kinds = append(kinds, KindHyperscan)
	}
	return kinds
}

// HyperscanAvailable reports whether this build includes the Hyperscan engine.
func HyperscanAvailable() bool {
	return hyperscanAvailable()
}

// Config for matcher initialization.
type Config struct {
	// Pattern to compile
	Pattern types.Pattern

	// Engine selects the backend for patterns that need one
	Engine Kind

	// Options tune the backend
	Options Options
}
