package matcher

import (
	"io"
	"os"
	"time"
)

// Options configures matching behavior
type Options struct {
	// MatchTimeout bounds a single regexp2 search (0 = no timeout).
	// Other engines run in linear time and ignore it.
	MatchTimeout time.Duration

	// DisablePrefilter turns off the Aho-Corasick keyword prefilter that
	// rejects inputs lacking a required literal.
	DisablePrefilter bool

	// Diagnostics receives warnings (nil = stderr)
	Diagnostics io.Writer
}

// DefaultOptions returns the default matching options
func DefaultOptions() Options {
	return Options{
		MatchTimeout:     0,
		DisablePrefilter: false,
		Diagnostics:      os.Stderr,
	}
}

func (o Options) withDefaults() Options {
	if o.Diagnostics == nil {
		o.Diagnostics = os.Stderr
	}
	return o
}
