package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Empty())

	empty := Span{Start: 4, End: 4}
	assert.Equal(t, 0, empty.Len())
	assert.True(t, empty.Empty())
}
