package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Engine: matcher.KindRegexp2, Options: matcher.Options{Diagnostics: io.Discard}}
}

// run feeds requests to a fresh server and returns the responses after the
// ready line.
func run(t *testing.T, cfg Config, requests ...string) []Response {
	t.Helper()
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	out := &bytes.Buffer{}

	srv := NewServer(cfg, in, out)
	require.NoError(t, srv.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resps []Response
	for _, line := range lines[1:] {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	in := strings.NewReader("")
	out := &bytes.Buffer{}

	srv := NewServer(testConfig(), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately to exit after ready

	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	err := json.Unmarshal([]byte(lines[0]), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var data ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, Version, data.Version)
	assert.Equal(t, "regexp2", data.Engine)
}

func TestServer_CompileAndExec(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"r","source":"a(b)?","flags":"g"}}`,
		`{"type":"exec","payload":{"id":"r","input":"xab a"}}`,
		`{"type":"exec","payload":{"id":"r","input":"xab a"}}`,
		`{"type":"exec","payload":{"id":"r","input":"xab a"}}`,
	)
	require.Len(t, resps, 4)

	for _, resp := range resps {
		assert.True(t, resp.Success, resp.Error)
	}

	var compiled CompileData
	require.NoError(t, json.Unmarshal(resps[0].Data, &compiled))
	assert.Equal(t, "/a(b)?/g", compiled.String)

	assert.JSONEq(t, `{"result":{"0":"ab","1":"b","index":1,"input":"xab a"},"lastIndex":3}`, string(resps[1].Data))
	assert.JSONEq(t, `{"result":{"0":"a","1":null,"index":4,"input":"xab a"},"lastIndex":5}`, string(resps[2].Data))
	assert.JSONEq(t, `{"result":null,"lastIndex":0}`, string(resps[3].Data))
}

func TestServer_TestWithLastIndex(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"r","source":"a","flags":"g"}}`,
		`{"type":"test","payload":{"id":"r","input":"aba","lastIndex":1}}`,
		`{"type":"test","payload":{"id":"r","input":"aba","lastIndex":9}}`,
	)
	require.Len(t, resps, 3)

	var first, second TestData
	require.NoError(t, json.Unmarshal(resps[1].Data, &first))
	require.NoError(t, json.Unmarshal(resps[2].Data, &second))

	assert.True(t, first.Matched)
	assert.Equal(t, float64(3), first.LastIndex)
	assert.False(t, second.Matched)
	assert.Equal(t, float64(0), second.LastIndex)
}

func TestServer_LiteralCompile(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"lit","source":"a.b","literal":true}}`,
		`{"type":"test","payload":{"id":"lit","input":"axb"}}`,
		`{"type":"test","payload":{"id":"lit","input":"xa.b"}}`,
	)
	require.Len(t, resps, 3)

	var miss, hit TestData
	require.NoError(t, json.Unmarshal(resps[1].Data, &miss))
	require.NoError(t, json.Unmarshal(resps[2].Data, &hit))
	assert.False(t, miss.Matched)
	assert.True(t, hit.Matched)
}

func TestServer_SharedStatics(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"a","source":"(l+)"}}`,
		`{"type":"compile","payload":{"id":"b","source":"o"}}`,
		`{"type":"exec","payload":{"id":"a","input":"hello"}}`,
		`{"type":"statics","payload":{}}`,
		`{"type":"exec","payload":{"id":"b","input":"hello"}}`,
		`{"type":"statics","payload":{}}`,
	)
	require.Len(t, resps, 6)

	var afterA, afterB StaticsData
	require.NoError(t, json.Unmarshal(resps[3].Data, &afterA))
	require.NoError(t, json.Unmarshal(resps[5].Data, &afterB))

	assert.Equal(t, "ll", afterA.LastMatch)
	assert.Equal(t, "he", afterA.LeftContext)
	assert.Equal(t, "o", afterA.RightContext)
	assert.Equal(t, "ll", afterA.LastParen)
	require.Len(t, afterA.Parens, 1)

	assert.Equal(t, "o", afterB.LastMatch)
	assert.Equal(t, "hell", afterB.LeftContext)
	assert.Empty(t, afterB.Parens)
}

func TestServer_Translate(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"translate","payload":{"source":"(?!(a))\\1","dialect":"dotnet"}}`,
		`{"type":"translate","payload":{"source":"a","dialect":"perl"}}`,
	)
	require.Len(t, resps, 2)

	require.True(t, resps[0].Success, resps[0].Error)
	var tr TranslateData
	require.NoError(t, json.Unmarshal(resps[0].Data, &tr))
	assert.Equal(t, 1, tr.GroupCount)
	assert.Equal(t, []int{1}, tr.NegLookahead)

	assert.False(t, resps[1].Success)
	assert.Equal(t, "translate", resps[1].Type)
}

func TestServer_Errors(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"bad","source":"(","flags":""}}`,
		`{"type":"compile","payload":{"id":"f","source":"a","flags":"gg"}}`,
		`{"type":"compile","payload":{"source":"a"}}`,
		`{"type":"exec","payload":{"id":"missing","input":"a"}}`,
	)
	require.Len(t, resps, 4)

	for _, resp := range resps {
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	}
	assert.Equal(t, "compile", resps[0].Type)
	assert.Contains(t, resps[2].Error, "id is required")
	assert.Contains(t, resps[3].Error, `"missing"`)
}

func TestServer_Release(t *testing.T) {
	resps := run(t, testConfig(),
		`{"type":"compile","payload":{"id":"r","source":"a"}}`,
		`{"type":"release","payload":{"id":"r"}}`,
		`{"type":"exec","payload":{"id":"r","input":"a"}}`,
		`{"type":"release","payload":{"id":"r"}}`,
	)
	require.Len(t, resps, 4)

	assert.True(t, resps[1].Success)
	assert.False(t, resps[2].Success)
	assert.False(t, resps[3].Success)
}

func TestServer_CoregexEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Engine = matcher.KindCoregex

	resps := run(t, cfg,
		`{"type":"compile","payload":{"id":"ok","source":"b+"}}`,
		`{"type":"compile","payload":{"id":"backref","source":"(a)\\1"}}`,
	)
	require.Len(t, resps, 2)

	assert.True(t, resps[0].Success)
	assert.False(t, resps[1].Success)
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	// Slow reader that blocks
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(testConfig(), pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	// Wait for ready signal
	time.Sleep(100 * time.Millisecond)

	// Cancel context
	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_CloseCommand(t *testing.T) {
	resps := run(t, testConfig(), `{"type":"close","payload":{}}`)
	assert.Empty(t, resps) // Only ready signal
}

func TestServer_UnknownCommand(t *testing.T) {
	resps := run(t, testConfig(), `{"type":"invalid","payload":{}}`)
	require.Len(t, resps, 1)

	assert.False(t, resps[0].Success)
	assert.Contains(t, resps[0].Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	resps := run(t, testConfig(), `{invalid json}`)
	require.GreaterOrEqual(t, len(resps), 1)

	assert.False(t, resps[0].Success)
	assert.Equal(t, "decode", resps[0].Type)
}

func TestServer_MalformedJSONKeepsServing(t *testing.T) {
	resps := run(t, testConfig(),
		`{not json}`,
		``,
		`{"type":"statics","payload":{}}`,
		`{"type":"compile","payload":{"id":"r","source":"b","flags":""}}`,
	)
	require.Len(t, resps, 3)

	assert.False(t, resps[0].Success)
	assert.Equal(t, "decode", resps[0].Type)

	assert.True(t, resps[1].Success, resps[1].Error)
	assert.Equal(t, "statics", resps[1].Type)

	assert.True(t, resps[2].Success, resps[2].Error)
	assert.Equal(t, "compile", resps[2].Type)
}
