package types

// Group is one capture slot of a match result. Slot 0 is the whole match.
// A group that did not participate in the match has Matched == false and
// an empty Value, which callers render as undefined.
type Group struct {
	Value   string `json:"value"`
	Matched bool   `json:"matched"`
}

// Values returns the group texts, with nil for non-participating groups.
func Values(groups []Group) []*string {
	out := make([]*string, len(groups))
	for i := range groups {
		if groups[i].Matched {
			v := groups[i].Value
			out[i] = &v
		}
	}
	return out
}

// LastParen returns the text of the last capture group, or "" when the
// pattern has no capture groups or the last one did not participate.
func LastParen(groups []Group) string {
	if len(groups) < 2 {
		return ""
	}
	return groups[len(groups)-1].Value
}
