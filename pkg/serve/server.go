package serve

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
)

// Version is the server protocol version
const Version = "1.0.0"

// Config configures the expressions a Server compiles.
type Config struct {
	Engine  matcher.Kind
	Options matcher.Options
	// Version selects the statics LeftContext behaviour.
	Version jsregexp.Version
}

// Server compiles and executes expressions on behalf of a client speaking
// NDJSON over a pair of streams. Expressions are kept by client-chosen id
// and share one set of statics, like the expressions of a single script.
type Server struct {
	cfg     Config
	statics *jsregexp.Statics
	regexps map[string]*jsregexp.RegExp
	encoder *json.Encoder
	scanner *bufio.Scanner
}

// maxLine bounds a single request line.
const maxLine = 64 * 1024 * 1024

// incoming is one request line read by Run, or the reason it could not be
// decoded.
type incoming struct {
	req Request
	err error
}

// NewServer creates a new streaming server
func NewServer(cfg Config, in io.Reader, out io.Writer) *Server {
	return &Server{
		cfg:     cfg,
		statics: &jsregexp.Statics{Version: cfg.Version},
		regexps: make(map[string]*jsregexp.RegExp),
		encoder: json.NewEncoder(out),
		scanner: newScanner(in),
	}
}

func newScanner(in io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

// Run starts the server main loop. Compiled expressions are released when
// it returns.
func (s *Server) Run(ctx context.Context) error {
	defer s.releaseAll()

	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan incoming, 1)
	errChan := make(chan error, 1)

	go func() {
		for s.scanner.Scan() {
			line := bytes.TrimSpace(s.scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var in incoming
			if err := json.Unmarshal(line, &in.req); err != nil {
				in.err = err
			}
			select {
			case reqChan <- in:
			case <-ctx.Done():
				return
			}
		}
		err := s.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		errChan <- err
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case in := <-reqChan:
					if s.handle(in) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case in := <-reqChan:
			if s.handle(in) {
				return nil
			}
		}
	}
}

// handle answers a line that failed to decode with an error and processes
// the rest. It returns true if the server should exit.
func (s *Server) handle(in incoming) bool {
	if in.err != nil {
		s.sendError("decode", in.err.Error())
		return false
	}
	return s.processRequest(in.req)
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	var (
		data any
		err  error
	)
	switch req.Type {
	case "compile":
		data, err = s.handleCompile(req.Payload)
	case "exec":
		data, err = s.handleExec(req.Payload)
	case "test":
		data, err = s.handleTest(req.Payload)
	case "translate":
		data, err = s.handleTranslate(req.Payload)
	case "statics":
		data = s.staticsData()
	case "release":
		data, err = s.handleRelease(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
		return false
	}

	if err != nil {
		s.sendError(req.Type, err.Error())
		return false
	}
	s.send(req.Type, data)
	return false
}

func (s *Server) handleCompile(payload json.RawMessage) (any, error) {
	var p CompilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("compile: id is required")
	}

	opts := []jsregexp.Option{
		jsregexp.WithEngine(s.cfg.Engine),
		jsregexp.WithMatcherOptions(s.cfg.Options),
		jsregexp.WithStatics(s.statics),
	}
	newFn := jsregexp.New
	if p.Literal {
		newFn = jsregexp.NewLiteral
	}
	re, err := newFn(p.Source, p.Flags, opts...)
	if err != nil {
		return nil, err
	}

	if old, ok := s.regexps[p.ID]; ok {
		old.Close()
	}
	s.regexps[p.ID] = re
	return CompileData{ID: p.ID, String: re.String()}, nil
}

// lookup decodes an exec payload and applies its lastIndex.
func (s *Server) lookup(payload json.RawMessage) (*jsregexp.RegExp, ExecPayload, error) {
	var p ExecPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, p, err
	}
	re, ok := s.regexps[p.ID]
	if !ok {
		return nil, p, fmt.Errorf("no expression with id %q", p.ID)
	}
	if p.LastIndex != nil {
		re.LastIndex = *p.LastIndex
	}
	return re, p, nil
}

func (s *Server) handleExec(payload json.RawMessage) (any, error) {
	re, p, err := s.lookup(payload)
	if err != nil {
		return nil, err
	}
	res, err := re.Exec(p.Input)
	if err != nil {
		return nil, err
	}
	return ExecData{Result: res, LastIndex: re.LastIndex}, nil
}

func (s *Server) handleTest(payload json.RawMessage) (any, error) {
	re, p, err := s.lookup(payload)
	if err != nil {
		return nil, err
	}
	ok, err := re.Test(p.Input)
	if err != nil {
		return nil, err
	}
	return TestData{Matched: ok, LastIndex: re.LastIndex}, nil
}

func (s *Server) handleTranslate(payload json.RawMessage) (any, error) {
	var p TranslatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	d, err := dialect.ParseDialect(p.Dialect)
	if err != nil {
		return nil, err
	}
	bom := true
	if p.BOMWhitespace != nil {
		bom = *p.BOMWhitespace
	}

	tr := dialect.Translate(d, p.Source, dialect.Options{
		BOMWhitespace: bom,
		Multiline:     p.Multiline,
		IgnoreCase:    p.IgnoreCase,
	})
	return TranslateData{
		Source:       tr.Source,
		GroupCount:   tr.GroupCount,
		NegLookahead: tr.NegLookahead.Indexes(),
		Names:        tr.Names,
	}, nil
}

func (s *Server) handleRelease(payload json.RawMessage) (any, error) {
	var p ReleasePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	re, ok := s.regexps[p.ID]
	if !ok {
		return nil, fmt.Errorf("no expression with id %q", p.ID)
	}
	delete(s.regexps, p.ID)
	return ReleasePayload{ID: p.ID}, re.Close()
}

func (s *Server) staticsData() StaticsData {
	return StaticsData{
		Input:        s.statics.Input,
		LastMatch:    s.statics.LastMatch,
		LeftContext:  s.statics.LeftContext,
		RightContext: s.statics.RightContext,
		LastParen:    s.statics.LastParen,
		Parens:       s.statics.Parens,
	}
}

func (s *Server) releaseAll() {
	for id, re := range s.regexps {
		re.Close()
		delete(s.regexps, id)
	}
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Engine: s.cfg.Engine.String()})
}

func (s *Server) send(reqType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(reqType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
