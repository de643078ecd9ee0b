package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		from  int
		span  Span
		want  Context
	}{
		{
			name:  "middle",
			input: "xxabyy",
			span:  Span{Start: 2, End: 4},
			want:  Context{Left: "xx", Match: "ab", Right: "yy"},
		},
		{
			name:  "left from search start",
			input: "ababab",
			from:  2,
			span:  Span{Start: 4, End: 6},
			want:  Context{Left: "ab", Match: "ab", Right: ""},
		},
		{
			name:  "multibyte",
			input: "héllo wörld",
			span:  Span{Start: 6, End: 11},
			want:  Context{Left: "héllo ", Match: "wörld", Right: ""},
		},
		{
			name:  "invalid utf-8 kept as bytes",
			input: "a\xffb",
			span:  Span{Start: 1, End: 2},
			want:  Context{Left: "a", Match: "\xff", Right: "b"},
		},
		{
			name:  "out of range is clamped",
			input: "abc",
			from:  5,
			span:  Span{Start: 1, End: 9},
			want:  Context{Left: "", Match: "bc", Right: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewContext(tt.input, tt.from, tt.span))
		})
	}
}
