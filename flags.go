package jsregexp

import (
	"fmt"

	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// FlagError reports an unknown or repeated flag letter.
type FlagError struct {
	Flag      rune
	Duplicate bool
}

func (e *FlagError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("invalid regular expression flags: %q repeated", e.Flag)
	}
	return fmt.Sprintf("invalid regular expression flag %q", e.Flag)
}

// parseFlags reads the flag letters g, i and m.
func parseFlags(flags string) (types.Pattern, error) {
	var p types.Pattern
	for _, c := range flags {
		var f *bool
		switch c {
		case 'g':
			f = &p.Global
		case 'i':
			f = &p.IgnoreCase
		case 'm':
			f = &p.Multiline
		default:
			return types.Pattern{}, &FlagError{Flag: c}
		}
		if *f {
			return types.Pattern{}, &FlagError{Flag: c, Duplicate: true}
		}
		*f = true
	}
	return p, nil
}
