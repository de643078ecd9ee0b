//go:build cgo && hyperscan

package matcher

import (
	"bytes"
	"testing"

	"github.com/praetorian-inc/jsregexp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHyperscan(t *testing.T, p types.Pattern) *HyperscanMatcher {
	t.Helper()
	m, err := NewHyperscan(p, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	hm, ok := m.(*HyperscanMatcher)
	require.True(t, ok)
	return hm
}

func TestNewHyperscan_InvalidPattern(t *testing.T) {
	m, err := NewHyperscan(types.Pattern{Source: `(a)\1`}, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, m)

	var ce *CompileError
	assert.ErrorAs(t, err, &ce)
}

func TestHyperscanMatcher_NoMatches(t *testing.T) {
	m := newTestHyperscan(t, types.Pattern{Source: `\d{3}-\d{4}`})
	assert.NotNil(t, m.db)
	assert.NotNil(t, m.scratch)

	m.SetInput("no digits in here")
	assert.True(t, m.scanned)
	assert.Empty(t, m.ends)

	found, err := m.Find(0, false)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHyperscanMatcher_WithCaptureGroups(t *testing.T) {
	m := newTestHyperscan(t, types.Pattern{Source: `(\w+)@(\w+)\.com`})
	m.SetInput("mail bob@example.com now")

	found, err := m.Find(0, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, m.Start())
	assert.Equal(t, 20, m.End())

	user, ok := m.Group(1)
	assert.True(t, ok)
	assert.Equal(t, "bob", user)
	host, ok := m.Group(2)
	assert.True(t, ok)
	assert.Equal(t, "example", host)
}

func TestHyperscanMatcher_RejectsPastLastEnd(t *testing.T) {
	m := newTestHyperscan(t, types.Pattern{Source: `a\d`})
	m.SetInput("a1 xx a2 yy")
	require.True(t, m.scanned)
	assert.Equal(t, []int{2, 8}, m.ends)

	found, err := m.Find(3, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 6, m.Start())

	found, err = m.Find(9, false)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHyperscanMatcher_AgreesWithCoregex(t *testing.T) {
	patterns := []types.Pattern{
		{Source: `^b$`},
		{Source: `^b$`, Multiline: true},
		{Source: `colou?r`, IgnoreCase: true},
		{Source: `x*`},
	}
	inputs := []string{"a\nb\nc", "b", "COLOR and colour", "ab"}

	for _, p := range patterns {
		hs := newTestHyperscan(t, p)
		cr, err := NewCoregex(p, DefaultOptions())
		require.NoError(t, err)

		for _, input := range inputs {
			hs.SetInput(input)
			cr.SetInput(input)
			for _, force := range []bool{false, true} {
				got, err := hs.Find(0, force)
				require.NoError(t, err)
				want, err := cr.Find(0, force)
				require.NoError(t, err)
				require.Equal(t, want, got, "%s on %q force=%v", p, input, force)
				if got {
					assert.Equal(t, cr.Start(), hs.Start())
					assert.Equal(t, cr.End(), hs.End())
				}
			}
		}
	}
}

func TestHyperscanMatcher_InvalidUTF8(t *testing.T) {
	var diag bytes.Buffer
	opts := DefaultOptions()
	opts.Diagnostics = &diag

	m, err := NewHyperscan(types.Pattern{Source: `b+`}, opts)
	require.NoError(t, err)
	defer m.Close()

	m.SetInput("a\xffbb")
	assert.False(t, m.(*HyperscanMatcher).scanned)
	assert.Contains(t, diag.String(), "[hyperscan] input is not valid UTF-8")

	found, err := m.Find(0, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, m.Start())
}

func TestHyperscanMatcher_Close(t *testing.T) {
	m, err := NewHyperscan(types.Pattern{Source: `abc`}, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	// Closing twice is safe
	require.NoError(t, m.Close())
}

func TestNew_Hyperscan(t *testing.T) {
	m, err := New(Config{Pattern: types.Pattern{Source: `a+b`}, Engine: KindHyperscan})
	require.NoError(t, err)
	defer m.Close()
	assert.IsType(t, &HyperscanMatcher{}, m)
}

func TestHyperscanMatcher_MultilineCarriageReturn(t *testing.T) {
	m := newTestHyperscan(t, types.Pattern{Source: `^b`, Multiline: true})
	m.SetInput("a\rb")

	found, err := m.Find(0, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, m.Start())
}

func TestHyperscanMatcher_MultibyteDot(t *testing.T) {
	m := newTestHyperscan(t, types.Pattern{Source: `b(.)`})
	m.SetInput("\xc3\xa9b\xc3\xa9")

	found, err := m.Find(0, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, m.Start())
	assert.Equal(t, 3, m.End())
	g, ok := m.Group(1)
	assert.True(t, ok)
	assert.Equal(t, "\xc3\xa9", g)
}
