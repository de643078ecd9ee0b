package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"translate", "exec", "cases", "conformance", "bench", "report", "merge", "explore", "serve", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestParseEngines(t *testing.T) {
	tests := []struct {
		name    string
		want    []matcher.Kind
		wantErr bool
	}{
		{"regexp2", []matcher.Kind{matcher.KindRegexp2}, false},
		{"coregex", []matcher.Kind{matcher.KindCoregex}, false},
		{"all", matcher.Kinds(), false},
		{"pcre", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEngines(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcherOptions(t *testing.T) {
	var errBuf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&errBuf)

	opts := matcherOptions(cmd, time.Second)
	assert.Equal(t, time.Second, opts.MatchTimeout)
	assert.Equal(t, &errBuf, opts.Diagnostics)

	quiet = true
	defer func() { quiet = false }()
	opts = matcherOptions(cmd, 0)
	assert.Equal(t, io.Discard, opts.Diagnostics)
}
