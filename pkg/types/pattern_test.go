package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPattern_Flags(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    string
	}{
		{"none", Pattern{Source: "a"}, ""},
		{"global", Pattern{Source: "a", Global: true}, "g"},
		{"all", Pattern{Source: "a", Global: true, IgnoreCase: true, Multiline: true}, "gim"},
		{"ignorecase multiline", Pattern{Source: "a", IgnoreCase: true, Multiline: true}, "im"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Flags())
		})
	}
}

func TestPattern_String(t *testing.T) {
	assert.Equal(t, "/a+b/g", Pattern{Source: "a+b", Global: true}.String())
	assert.Equal(t, "/(?:)/", Pattern{}.String())
	assert.Equal(t, "/x/im", Pattern{Source: "x", IgnoreCase: true, Multiline: true}.String())
}

func TestPattern_ComputeID(t *testing.T) {
	p := Pattern{Source: `a(b)c`, Global: true}

	id := p.ComputeID()
	assert.Len(t, id, 40)

	// Same source and flags produce the same ID
	assert.Equal(t, id, Pattern{Source: `a(b)c`, Global: true, Literal: true}.ComputeID())

	// Flags change the ID
	assert.NotEqual(t, id, Pattern{Source: `a(b)c`}.ComputeID())
}
