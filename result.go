package jsregexp

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// ExecResult is the array returned by RegExp.prototype.exec: the match,
// then one slot per capture group, then the index and input properties.
type ExecResult struct {
	// Groups is empty for results of Test.
	Groups []types.Group
	Index  int
	Input  string
}

// Values returns the slots in property order: group texts (nil for
// groups that did not participate), then Index, then Input.
func (r *ExecResult) Values() []any {
	out := make([]any, 0, len(r.Groups)+2)
	for _, v := range types.Values(r.Groups) {
		if v == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, *v)
	}
	return append(out, r.Index, r.Input)
}

// MarshalJSON encodes the result as an object whose keys follow property
// order: "0".."n", then "index" and "input".
func (r *ExecResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	for i, v := range types.Values(r.Groups) {
		if err := write(strconv.Itoa(i), v); err != nil {
			return nil, err
		}
	}
	if err := write("index", r.Index); err != nil {
		return nil, err
	}
	if err := write("input", r.Input); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
