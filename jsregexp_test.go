package jsregexp

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engines = []matcher.Kind{EngineRegexp2, EngineCoregex}

func mustNew(t *testing.T, source, flags string, opts ...Option) *RegExp {
	t.Helper()
	re, err := New(source, flags, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { re.Close() })
	return re
}

func TestNew(t *testing.T) {
	re := mustNew(t, `a+`, "gim")

	assert.Equal(t, `a+`, re.Source())
	assert.True(t, re.Global())
	assert.True(t, re.IgnoreCase())
	assert.True(t, re.Multiline())
	assert.Equal(t, "gim", re.Flags())
	assert.NotNil(t, re.Statics())
	assert.NotNil(t, re.Matcher())
}

func TestNew_InvalidFlags(t *testing.T) {
	tests := []struct {
		flags     string
		flag      rune
		duplicate bool
	}{
		{"x", 'x', false},
		{"gy", 'y', false},
		{"gg", 'g', true},
		{"imi", 'i', true},
	}

	for _, tt := range tests {
		t.Run(tt.flags, func(t *testing.T) {
			re, err := New("a", tt.flags)
			assert.Nil(t, re)

			var fe *FlagError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.flag, fe.Flag)
			assert.Equal(t, tt.duplicate, fe.Duplicate)
			assert.Contains(t, err.Error(), string(tt.flag))
		})
	}
}

func TestNew_CompileError(t *testing.T) {
	_, err := New(`a(`, "")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, EngineRegexp2, ce.Engine)

	_, err = New(`(a)\1`, "", WithEngine(EngineCoregex))
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, EngineCoregex, ce.Engine)
}

func TestRegExp_String(t *testing.T) {
	tests := []struct {
		source string
		flags  string
		want   string
	}{
		{`a+`, "", `/a+/`},
		{`a+`, "ig", `/a+/gi`},
		{`a`, "mg", `/a/gm`},
		{``, "g", `/(?:)/g`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			re := mustNew(t, tt.source, tt.flags)
			assert.Equal(t, tt.want, re.String())
		})
	}
}

func TestExec_GlobalIteration(t *testing.T) {
	for _, kind := range engines {
		for _, source := range []string{`a`, `a(?:b)?`} {
			t.Run(kind.String()+"/"+source, func(t *testing.T) {
				re := mustNew(t, source, "g", WithEngine(kind))

				var indexes []int
				var lastIndexes []float64
				for i := 0; i < 4; i++ {
					res, err := re.Exec("ababab")
					require.NoError(t, err)
					if res == nil {
						break
					}
					indexes = append(indexes, res.Index)
					lastIndexes = append(lastIndexes, re.LastIndex)
				}

				assert.Equal(t, []int{0, 2, 4}, indexes)
				if source == `a` {
					assert.Equal(t, []float64{1, 3, 5}, lastIndexes)
				} else {
					assert.Equal(t, []float64{2, 4, 6}, lastIndexes)
				}
				assert.Zero(t, re.LastIndex, "a miss resets lastIndex")
			})
		}
	}
}

func TestExec_LastIndexOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		lastIndex float64
	}{
		{"negative", -1},
		{"past end", 7},
		{"NaN", math.NaN()},
		{"infinity", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustNew(t, `b`, "g")
			re.LastIndex = tt.lastIndex

			res, err := re.Exec("ababab")
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.Zero(t, re.LastIndex)
		})
	}
}

func TestExec_LastIndexAtEnd(t *testing.T) {
	re := mustNew(t, `$`, "g")
	re.LastIndex = 3

	res, err := re.Exec("abc")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Index)
	assert.Equal(t, float64(3), re.LastIndex)
}

func TestExec_LastIndexFraction(t *testing.T) {
	re := mustNew(t, `b`, "g")
	re.LastIndex = 1.7

	res, err := re.Exec("abab")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Index)
}

func TestExec_NonGlobalIgnoresLastIndex(t *testing.T) {
	re := mustNew(t, `a`, "")
	re.LastIndex = 3

	res, err := re.Exec("abab")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, float64(3), re.LastIndex)

	res, err = re.Exec("xyz")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, float64(3), re.LastIndex)
}

func TestExec_Result(t *testing.T) {
	for _, kind := range engines {
		t.Run(kind.String(), func(t *testing.T) {
			re := mustNew(t, `(a)|(b)`, "", WithEngine(kind))

			res, err := re.Exec("xb")
			require.NoError(t, err)
			require.NotNil(t, res)

			assert.Equal(t, []Group{
				{Value: "b", Matched: true},
				{},
				{Value: "b", Matched: true},
			}, res.Groups)
			assert.Equal(t, 1, res.Index)
			assert.Equal(t, "xb", res.Input)
			assert.Equal(t, []any{"b", nil, "b", 1, "xb"}, res.Values())

			data, err := json.Marshal(res)
			require.NoError(t, err)
			assert.Equal(t, `{"0":"b","1":null,"2":"b","index":1,"input":"xb"}`, string(data))
		})
	}
}

func TestExec_CapturesClearedOnRepetition(t *testing.T) {
	re := mustNew(t, `(z)((a+)?(b+)?(c))*`, "")

	res, err := re.Exec("zaacbbbcac")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []any{"zaacbbbcac", "z", "ac", "a", nil, "c", 0, "zaacbbbcac"}, res.Values())
}

func TestExec_NegativeLookaheadBackreference(t *testing.T) {
	re := mustNew(t, `(.*?)a(?!(a+)b\2c)\2(.*)`, "")

	res, err := re.Exec("baaabaac")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []any{"baaabaac", "ba", nil, "abaac", 0, "baaabaac"}, res.Values())
}

func TestExec_CharacterOffsets(t *testing.T) {
	for _, kind := range engines {
		t.Run(kind.String(), func(t *testing.T) {
			re := mustNew(t, `b.`, "g", WithEngine(kind))

			input := "\xc3\xa9\xc3\xa9b\xc3\xa9b"
			res, err := re.Exec(input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, 2, res.Index)
			assert.Equal(t, "b\xc3\xa9", res.Groups[0].Value)
			assert.Equal(t, float64(4), re.LastIndex)
		})
	}
}

func TestTest(t *testing.T) {
	re := mustNew(t, `o`, "g")

	ok, err := re.Test("foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(2), re.LastIndex)

	ok, err = re.Test("foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(3), re.LastIndex)

	ok, err = re.Test("foo")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, re.LastIndex)

	assert.Equal(t, "o", re.Statics().LastMatch)
}

func TestNewLiteral(t *testing.T) {
	tests := []struct {
		name  string
		flags string
		input string
		want  int
	}{
		{"case sensitive", "", "axb a.b(", 4},
		{"ignore case", "i", "axb A.B(", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := NewLiteral("a.b(", tt.flags)
			require.NoError(t, err)
			defer re.Close()

			res, err := re.Exec(tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Index)
		})
	}
}

func TestStatics(t *testing.T) {
	re := mustNew(t, `(\d+)-(\d+)`, "")

	_, err := re.Exec("tel 12-345 end")
	require.NoError(t, err)

	s := re.Statics()
	assert.Equal(t, "tel 12-345 end", s.Input)
	assert.Equal(t, "12-345", s.LastMatch)
	assert.Equal(t, "tel ", s.LeftContext)
	assert.Equal(t, " end", s.RightContext)
	assert.Equal(t, "345", s.LastParen)
	assert.Equal(t, "12", s.Paren(1))
	assert.Equal(t, "345", s.Paren(2))
	assert.Equal(t, "", s.Paren(3))
	assert.Len(t, s.Parens, 2)

	// a miss leaves the statics alone
	_, err = re.Exec("nothing")
	require.NoError(t, err)
	assert.Equal(t, "12-345", s.LastMatch)
	assert.Equal(t, "tel 12-345 end", s.Input)
}

func TestStatics_NoGroups(t *testing.T) {
	re := mustNew(t, `b+`, "")

	_, err := re.Exec("abbc")
	require.NoError(t, err)

	s := re.Statics()
	assert.Nil(t, s.Parens)
	assert.Equal(t, "", s.LastParen)
	assert.Equal(t, "bb", s.LastMatch)
}

func TestStatics_UnmatchedLastParen(t *testing.T) {
	re := mustNew(t, `(a)(x)?`, "")

	_, err := re.Exec("a")
	require.NoError(t, err)
	assert.Equal(t, "", re.Statics().LastParen)
}

func TestStatics_LeftContext(t *testing.T) {
	tests := []struct {
		name    string
		version Version
		want    []string
	}{
		{"default", VersionDefault, []string{"hi", "hi there"}},
		{"JavaScript 1.2", Version12, []string{"hi", "there"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statics := &Statics{Version: tt.version}
			re := mustNew(t, ` `, "g", WithStatics(statics))

			var got []string
			for {
				res, err := re.Exec("hi there bye")
				require.NoError(t, err)
				if res == nil {
					break
				}
				got = append(got, statics.LeftContext)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatics_Shared(t *testing.T) {
	statics := &Statics{}
	a := mustNew(t, `a`, "", WithStatics(statics))
	b := mustNew(t, `b`, "", WithStatics(statics))

	_, err := a.Exec("xa")
	require.NoError(t, err)
	assert.Equal(t, "a", statics.LastMatch)

	_, err = b.Exec("xb")
	require.NoError(t, err)
	assert.Equal(t, "b", statics.LastMatch)
	assert.Same(t, a.Statics(), b.Statics())
}

func TestStatics_ForcedMultiline(t *testing.T) {
	for _, kind := range engines {
		t.Run(kind.String(), func(t *testing.T) {
			statics := &Statics{}
			re := mustNew(t, `^b`, "", WithEngine(kind), WithStatics(statics))

			res, err := re.Exec("a\nb")
			require.NoError(t, err)
			assert.Nil(t, res)

			statics.Multiline = true
			res, err = re.Exec("a\nb")
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, 2, res.Index)

			statics.Multiline = false
			res, err = re.Exec("a\nb")
			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestWithBOMWhitespace(t *testing.T) {
	input := "a\xef\xbb\xbfb"

	re := mustNew(t, `a\sb`, "")
	ok, err := re.Test(input)
	require.NoError(t, err)
	assert.True(t, ok)

	re = mustNew(t, `a\sb`, "", WithBOMWhitespace(false))
	ok, err = re.Test(input)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile(t *testing.T) {
	re := mustNew(t, `a`, "g")
	_, err := re.Exec("aa")
	require.NoError(t, err)
	require.Equal(t, float64(1), re.LastIndex)

	require.NoError(t, re.Compile(`b+`, "i"))
	assert.Equal(t, `/b+/i`, re.String())
	assert.Zero(t, re.LastIndex)

	res, err := re.Exec("aBB")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "BB", res.Groups[0].Value)

	// a failed compile leaves the expression alone
	var fe *FlagError
	assert.ErrorAs(t, re.Compile(`c`, "q"), &fe)
	var ce *CompileError
	assert.ErrorAs(t, re.Compile(`c(`, ""), &ce)
	assert.Equal(t, `/b+/i`, re.String())
}

func TestCompileFrom(t *testing.T) {
	src := mustNew(t, `o+`, "g")
	src.LastIndex = 2

	re := mustNew(t, `x`, "")
	require.NoError(t, re.CompileFrom(src))
	assert.Equal(t, `/o+/g`, re.String())
	assert.Equal(t, float64(2), re.LastIndex)

	res, err := re.Exec("foo foo")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Index)

	// the source keeps its own state
	assert.Equal(t, float64(2), src.LastIndex)
}

func TestSetLastIndex(t *testing.T) {
	tests := []struct {
		value   any
		want    float64
		wantErr bool
	}{
		{3, 3, false},
		{int64(4), 4, false},
		{2.5, 2.5, false},
		{"5", 5, false},
		{true, 1, false},
		{nil, 0, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		re := mustNew(t, `a`, "g")
		err := re.SetLastIndex(tt.value)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.value)
			continue
		}
		require.NoError(t, err, "%v", tt.value)
		assert.Equal(t, tt.want, re.LastIndex, "%v", tt.value)
	}
}

func TestClose(t *testing.T) {
	re, err := New(`a+`, "")
	require.NoError(t, err)
	require.NoError(t, re.Close())
	// Closing twice is safe
	require.NoError(t, re.Close())
}
