// Package dialect rewrites JavaScript regular expression sources into the
// syntax of a backend engine.
//
// All dialects share one left-to-right state machine. They differ only in
// how literal code points, empty classes and anchors are written.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect identifies a backend syntax family.
type Dialect int

const (
	// DotNet is the .NET-style syntax accepted by regexp2 in ECMAScript mode.
	DotNet Dialect = iota
	// RE2 is the RE2/Go syntax accepted by coregex and used for the
	// confirmation stage of Hyperscan.
	RE2
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DotNet:
		return "dotnet"
	case RE2:
		return "re2"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// ParseDialect maps a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "dotnet", "regexp2":
		return DotNet, nil
	case "re2", "coregex", "hyperscan":
		return RE2, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q (expected dotnet or re2)", name)
	}
}

// hex writes code point r in the dialect's fixed-width escape syntax.
func (d Dialect) hex(r rune) string {
	if d == RE2 {
		return fmt.Sprintf(`\x{%04x}`, r)
	}
	if r > 0xffff {
		// regexp2 matches runes, so supplementary characters are literal
		return string(r)
	}
	return fmt.Sprintf(`\u%04x`, r)
}

// emptyClass returns a class that never matches.
func (d Dialect) emptyClass() string {
	if d == RE2 {
		return `[^\x{0000}-\x{10ffff}]`
	}
	return `(?!)`
}

// anyClass returns a class that matches every character.
func (d Dialect) anyClass() string {
	return `[\s\S]`
}

// lineTerminators returns the JS line terminator run, without brackets.
func (d Dialect) lineTerminators() string {
	return `\n\r` + d.hex(0x2028) + d.hex(0x2029)
}

// dot returns the translation of an unescaped '.' outside a class.
func (d Dialect) dot() string {
	return "[^" + d.lineTerminators() + "]"
}

// lineStart returns the translation of '^' for the effective multiline flag.
// RE2 relies on (?m), whose anchors only break lines at '\n'.
func (d Dialect) lineStart(multiline bool) string {
	if d == DotNet && multiline {
		return "(?<![^" + d.lineTerminators() + "])"
	}
	return "^"
}

// lineEnd returns the translation of '$' for the effective multiline flag.
func (d Dialect) lineEnd(multiline bool) string {
	if d == RE2 {
		return "$"
	}
	if multiline {
		return "(?![^" + d.lineTerminators() + "])"
	}
	return `(?![\s\S])`
}

// prefix returns inline flags that must precede the translated source.
func (d Dialect) prefix(opts Options) string {
	if d != RE2 {
		return ""
	}
	flags := ""
	if opts.IgnoreCase {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags == "" {
		return ""
	}
	return "(?" + flags + ")"
}
