// Package jsregexp runs JavaScript regular expressions on Go regex engines.
//
// A RegExp keeps ECMA-262 behaviour regardless of the engine underneath:
// JavaScript syntax is translated for the engine, results use character
// offsets, captures from earlier loop iterations are cleared, and global
// expressions advance LastIndex between executions.
//
// # Basic Usage
//
// Compile an expression and execute it:
//
//	re, err := jsregexp.New(`(\w+)@(\w+)\.com`, "g")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer re.Close()
//
//	for {
//	    res, err := re.Exec("bob@example.com, amy@example.com")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if res == nil {
//	        break
//	    }
//	    fmt.Printf("%s at %d\n", res.Groups[1].Value, res.Index)
//	}
//
// # Engines
//
// The default engine is regexp2, which supports backreferences and
// lookaround. coregex runs in linear time but rejects those constructs:
//
//	re, err := jsregexp.New(`a+b`, "", jsregexp.WithEngine(matcher.KindCoregex))
package jsregexp

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/types"
	"github.com/spf13/cast"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/jsregexp" without subpackages.
type (
	// Group is one capture slot of a match result.
	Group = types.Group

	// Pattern holds a source and its flags.
	Pattern = types.Pattern

	// CompileError reports a pattern an engine could not compile.
	CompileError = matcher.CompileError
)

// Re-export engine kinds.
const (
	EngineRegexp2   = matcher.KindRegexp2
	EngineCoregex   = matcher.KindCoregex
	EngineHyperscan = matcher.KindHyperscan
)

// RegExp is a compiled JavaScript regular expression.
//
// A RegExp holds LastIndex and the engine's match state, so it is NOT safe
// for concurrent use.
type RegExp struct {
	// LastIndex is where the next execution of a global expression starts.
	// It is a float64 because hosts may store any number in it.
	LastIndex float64

	pattern types.Pattern
	m       matcher.Matcher
	config  *regexpConfig
}

// regexpConfig holds construction options.
type regexpConfig struct {
	engine        matcher.Kind
	bomWhitespace bool
	options       matcher.Options
	statics       *Statics
}

// Option configures a RegExp.
type Option func(*regexpConfig)

// WithEngine selects the engine for patterns that are not plain text.
// Default is regexp2.
func WithEngine(kind matcher.Kind) Option {
	return func(c *regexpConfig) {
		c.engine = kind
	}
}

// WithBOMWhitespace controls whether \s matches U+FEFF. Default is true.
func WithBOMWhitespace(enabled bool) Option {
	return func(c *regexpConfig) {
		c.bomWhitespace = enabled
	}
}

// WithMatchTimeout bounds a single regexp2 search. Default is no timeout.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *regexpConfig) {
		c.options.MatchTimeout = d
	}
}

// WithStatics shares s between expressions, the way RegExp.lastMatch and
// friends are shared by all expressions of a script. By default each
// RegExp records into its own Statics.
func WithStatics(s *Statics) Option {
	return func(c *regexpConfig) {
		c.statics = s
	}
}

// WithMatcherOptions replaces the engine options.
func WithMatcherOptions(opts matcher.Options) Option {
	return func(c *regexpConfig) {
		c.options = opts
	}
}

// New compiles source with flags, a string of the letters g, i and m.
//
// Invalid flags fail with *FlagError. Patterns the engine rejects fail
// with *CompileError.
func New(source, flags string, opts ...Option) (*RegExp, error) {
	return newRegExp(source, flags, false, opts)
}

// NewLiteral compiles source as a string that matches itself.
func NewLiteral(source, flags string, opts ...Option) (*RegExp, error) {
	return newRegExp(source, flags, true, opts)
}

func newRegExp(source, flags string, literal bool, opts []Option) (*RegExp, error) {
	config := &regexpConfig{
		engine:        matcher.KindRegexp2,
		bomWhitespace: true,
		options:       matcher.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.statics == nil {
		config.statics = &Statics{}
	}

	re := &RegExp{config: config}
	p, err := re.parse(source, flags, literal)
	if err != nil {
		return nil, err
	}
	if err := re.compile(p); err != nil {
		return nil, err
	}
	return re, nil
}

func (re *RegExp) parse(source, flags string, literal bool) (types.Pattern, error) {
	p, err := parseFlags(flags)
	if err != nil {
		return types.Pattern{}, err
	}
	p.Source = source
	p.Literal = literal
	p.BOMWhitespace = re.config.bomWhitespace
	return p, nil
}

func (re *RegExp) compile(p types.Pattern) error {
	m, err := matcher.New(matcher.Config{
		Pattern: p,
		Engine:  re.config.engine,
		Options: re.config.options,
	})
	if err != nil {
		return fmt.Errorf("compiling /%s/: %w", p.Source, err)
	}
	if re.m != nil {
		re.m.Close()
	}
	re.m = m
	re.pattern = p
	return nil
}

// Compile replaces the expression with source and flags and resets
// LastIndex. On error the RegExp is unchanged.
func (re *RegExp) Compile(source, flags string) error {
	p, err := re.parse(source, flags, false)
	if err != nil {
		return err
	}
	if err := re.compile(p); err != nil {
		return err
	}
	re.LastIndex = 0
	return nil
}

// CompileFrom replaces the expression with other's and copies its
// LastIndex. The engine is rebuilt, so the two RegExps share no state.
func (re *RegExp) CompileFrom(other *RegExp) error {
	if err := re.compile(other.pattern); err != nil {
		return err
	}
	re.LastIndex = other.LastIndex
	return nil
}

// SetLastIndex stores a host value in LastIndex, converting numbers,
// numeric strings and booleans.
func (re *RegExp) SetLastIndex(v any) error {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return fmt.Errorf("invalid lastIndex %v: %w", v, err)
	}
	re.LastIndex = f
	return nil
}

// Exec runs the expression against input. It returns nil without an error
// when there is no match.
func (re *RegExp) Exec(input string) (*ExecResult, error) {
	return re.exec(input, true)
}

// Test reports whether the expression matches input. It updates LastIndex
// and the statics exactly like Exec.
func (re *RegExp) Test(input string) (bool, error) {
	res, err := re.exec(input, false)
	return res != nil, err
}

func (re *RegExp) exec(input string, build bool) (*ExecResult, error) {
	start := 0
	if re.pattern.Global {
		d := re.LastIndex
		if !(d >= 0 && d <= float64(utf8.RuneCountInString(input))) {
			re.LastIndex = 0
			return nil, nil
		}
		start = int(d)
	}

	re.m.SetInput(input)
	found, err := re.m.Find(start, re.config.statics.Multiline)
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", re, err)
	}
	if !found {
		if re.pattern.Global {
			re.LastIndex = 0
		}
		return nil, nil
	}

	span := types.Span{Start: re.m.Start(), End: re.m.End()}
	if re.pattern.Global {
		re.LastIndex = float64(span.End)
	}

	groups := make([]types.Group, re.m.GroupCount()+1)
	for i := range groups {
		v, ok := re.m.Group(i)
		groups[i] = types.Group{Value: v, Matched: ok}
	}
	re.config.statics.record(input, start, span, groups)

	res := &ExecResult{Index: span.Start, Input: input}
	if build {
		res.Groups = groups
	}
	return res, nil
}

// String returns the expression as a JavaScript literal, e.g. /a+/gi.
func (re *RegExp) String() string {
	return re.pattern.String()
}

// Source returns the pattern text.
func (re *RegExp) Source() string { return re.pattern.Source }

// Global returns the g flag.
func (re *RegExp) Global() bool { return re.pattern.Global }

// IgnoreCase returns the i flag.
func (re *RegExp) IgnoreCase() bool { return re.pattern.IgnoreCase }

// Multiline returns the m flag.
func (re *RegExp) Multiline() bool { return re.pattern.Multiline }

// Flags returns the flag letters in canonical order.
func (re *RegExp) Flags() string { return re.pattern.Flags() }

// Statics returns the statics this RegExp records into.
func (re *RegExp) Statics() *Statics {
	return re.config.statics
}

// Matcher returns the underlying engine.
func (re *RegExp) Matcher() matcher.Matcher {
	return re.m
}

// Close releases engine resources.
// Always call Close when done with the RegExp.
func (re *RegExp) Close() error {
	if re.m == nil {
		return nil
	}
	err := re.m.Close()
	re.m = nil
	return err
}
