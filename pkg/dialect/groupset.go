package dialect

// GroupSet is a set of capture group indexes. It grows as needed, so there
// is no limit on the number of groups it can hold.
type GroupSet []bool

// Add inserts group n.
func (s *GroupSet) Add(n int) {
	if n < 0 {
		return
	}
	for len(*s) <= n {
		*s = append(*s, false)
	}
	(*s)[n] = true
}

// Has reports whether group n is in the set.
func (s GroupSet) Has(n int) bool {
	return n >= 0 && n < len(s) && s[n]
}

// Indexes returns the members in ascending order.
func (s GroupSet) Indexes() []int {
	var out []int
	for i, ok := range s {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
