//go:build !cgo || !hyperscan

package matcher

import (
	"fmt"

	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// NewHyperscan stub for builds without Hyperscan (non-CGO or missing hyperscan tag).
// Returns an error wrapping ErrEngineUnavailable.
func NewHyperscan(p types.Pattern, opts Options) (Matcher, error) {
	return nil, fmt.Errorf("Hyperscan requires CGO (build with CGO_ENABLED=1 and -tags=hyperscan): %w", ErrEngineUnavailable)
}
