package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is the panic value for reading match data without a
	// successful Find.
	ErrInvalidState = errors.New("matcher: no current match")

	// ErrNoInput is returned by Find when no input is bound.
	ErrNoInput = errors.New("matcher: no input bound")

	// ErrEngineUnavailable is returned when the selected engine is not part
	// of this build.
	ErrEngineUnavailable = errors.New("matcher: engine not available in this build")
)

// CompileError reports a pattern the backend could not compile.
type CompileError struct {
	Engine     Kind   // backend that rejected the pattern
	Source     string // JavaScript source
	Translated string // backend source
	Err        error  // backend error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: invalid regular expression /%s/ (compiled as %q): %v",
		e.Engine, e.Source, e.Translated, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
