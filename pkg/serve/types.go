package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "compile" | "exec" | "test" | "translate" | "statics" | "release" | "close"
	Payload json.RawMessage `json:"payload"`
}

// CompilePayload is the payload for "compile" requests
type CompilePayload struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Flags   string `json:"flags"`
	Literal bool   `json:"literal"`
}

// ExecPayload is the payload for "exec" and "test" requests.
// LastIndex, when set, is assigned before executing.
type ExecPayload struct {
	ID        string   `json:"id"`
	Input     string   `json:"input"`
	LastIndex *float64 `json:"lastIndex,omitempty"`
}

// TranslatePayload is the payload for "translate" requests
type TranslatePayload struct {
	Source        string `json:"source"`
	Dialect       string `json:"dialect"`
	BOMWhitespace *bool  `json:"bomWhitespace,omitempty"`
	Multiline     bool   `json:"multiline"`
	IgnoreCase    bool   `json:"ignoreCase"`
}

// ReleasePayload is the payload for "release" requests
type ReleasePayload struct {
	ID string `json:"id"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Engine  string `json:"engine"`
}

// CompileData is the data field for "compile" responses
type CompileData struct {
	ID     string `json:"id"`
	String string `json:"string"`
}

// ExecData is the data field for "exec" responses. Result is null when
// there was no match.
type ExecData struct {
	Result    *jsregexp.ExecResult `json:"result"`
	LastIndex float64              `json:"lastIndex"`
}

// TestData is the data field for "test" responses
type TestData struct {
	Matched   bool    `json:"matched"`
	LastIndex float64 `json:"lastIndex"`
}

// TranslateData is the data field for "translate" responses
type TranslateData struct {
	Source       string         `json:"source"`
	GroupCount   int            `json:"groupCount"`
	NegLookahead []int          `json:"negLookahead,omitempty"`
	Names        map[int]string `json:"names,omitempty"`
}

// StaticsData is the data field for "statics" responses
type StaticsData struct {
	Input        string        `json:"input"`
	LastMatch    string        `json:"lastMatch"`
	LeftContext  string        `json:"leftContext"`
	RightContext string        `json:"rightContext"`
	LastParen    string        `json:"lastParen"`
	Parens       []types.Group `json:"parens"`
}
