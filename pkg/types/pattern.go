package types

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Pattern is a regular expression source plus its flags.
type Pattern struct {
	Source        string // JavaScript regular expression source, without slashes
	Global        bool   // g flag
	IgnoreCase    bool   // i flag
	Multiline     bool   // m flag
	Literal       bool   // source is plain text, not a regular expression
	BOMWhitespace bool   // U+FEFF is treated as whitespace by \s and \S
}

// Flags returns the flag letters in canonical "gim" order.
func (p Pattern) Flags() string {
	var b strings.Builder
	if p.Global {
		b.WriteByte('g')
	}
	if p.IgnoreCase {
		b.WriteByte('i')
	}
	if p.Multiline {
		b.WriteByte('m')
	}
	return b.String()
}

// String renders the pattern the way RegExp.prototype.toString does.
func (p Pattern) String() string {
	src := p.Source
	if src == "" {
		src = "(?:)"
	}
	return "/" + src + "/" + p.Flags()
}

// ComputeID computes SHA-1 of the source and flags. Patterns that differ only
// in the Literal or BOMWhitespace options share an ID.
func (p Pattern) ComputeID() string {
	h := sha1.New()
	h.Write([]byte(p.Source))
	h.Write([]byte{0})
	h.Write([]byte(p.Flags()))
	return hex.EncodeToString(h.Sum(nil))
}
