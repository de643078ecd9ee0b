package matcher

import (
	"testing"

	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCaptures(t *testing.T) {
	neg := func(groups ...int) dialect.GroupSet {
		var s dialect.GroupSet
		for _, g := range groups {
			s.Add(g)
		}
		return s
	}

	tests := []struct {
		name    string
		starts  []int
		negLook dialect.GroupSet
		want    []bool
	}{
		{
			name:   "empty",
			starts: nil,
			want:   []bool{},
		},
		{
			name:   "all participate in order",
			starts: []int{0, 0, 1, 2},
			want:   []bool{true, true, true, true},
		},
		{
			name:   "unmatched group",
			starts: []int{0, -1, 3},
			want:   []bool{true, false, true},
		},
		{
			name:   "stale group from earlier iteration",
			starts: []int{0, 0, 8, 8, 4, 9},
			want:   []bool{true, true, true, true, false, true},
		},
		{
			name:    "group inside negative lookahead",
			starts:  []int{0, 0, 1},
			negLook: neg(1),
			want:    []bool{true, false, true},
		},
		{
			name:    "hidden group does not move the floor",
			starts:  []int{0, 5, 2},
			negLook: neg(1),
			want:    []bool{true, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCaptures(tt.starts, tt.negLook))
		})
	}
}
