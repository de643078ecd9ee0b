// Package literal recognises regular expression sources that are plain text.
package literal

import (
	"strings"
	"unicode/utf8"
)

// meta lists the characters that need a backslash to be literal.
const meta = `\^$*+?[()|.{`

// CompileTextOnly returns the text matched by source when source contains
// no regular expression syntax: only plain characters and escapes that stand
// for a single character. ok is false for anything else, including
// backreferences, class escapes such as \d, and malformed escapes.
func CompileTextOnly(source string) (text string, ok bool) {
	var b strings.Builder
	b.Grow(len(source))

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c >= utf8.RuneSelf {
			b.WriteByte(c)
			continue
		}
		if c != '\\' {
			if strings.IndexByte(meta, c) >= 0 {
				return "", false
			}
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(source) {
			return "", false
		}
		c = source[i]
		switch c {
		case '0':
			// \0 followed by a digit is an octal escape
			if i+1 < len(source) && isDigit(source[i+1]) {
				return "", false
			}
			b.WriteByte(0)
		case 'c':
			if i+1 >= len(source) || !isASCIILetter(source[i+1]) {
				return "", false
			}
			i++
			b.WriteByte(source[i] & 0x1f)
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			v, ok := hexRun(source, i+1, 2)
			if !ok {
				return "", false
			}
			b.WriteRune(v)
			i += 2
		case 'u':
			v, ok := hexRun(source, i+1, 4)
			if !ok {
				return "", false
			}
			i += 4
			if v >= 0xd800 && v <= 0xdfff {
				lo, ok := lowSurrogate(source, i+1)
				if v > 0xdbff || !ok {
					// a lone surrogate has no UTF-8 form
					return "", false
				}
				v = 0x10000 + (v-0xd800)<<10 + (lo - 0xdc00)
				i += 6
			}
			b.WriteRune(v)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9',
			'b', 'B', 'd', 'D', 's', 'S', 'w', 'W':
			return "", false
		default:
			if c >= utf8.RuneSelf {
				// escaped multi-byte character: copy the whole rune
				_, w := utf8.DecodeRuneInString(source[i:])
				b.WriteString(source[i : i+w])
				i += w - 1
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String(), true
}

// Escape backslash-escapes the meta characters of source so that it
// matches itself when compiled as a regular expression.
func Escape(source string) string {
	var b strings.Builder
	b.Grow(len(source) * 2)
	for i := 0; i < len(source); i++ {
		c := source[i]
		if c < utf8.RuneSelf && strings.IndexByte(meta, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lowSurrogate(s string, i int) (rune, bool) {
	if i+1 >= len(s) || s[i] != '\\' || s[i+1] != 'u' {
		return 0, false
	}
	lo, ok := hexRun(s, i+2, 4)
	if !ok || lo < 0xdc00 || lo > 0xdfff {
		return 0, false
	}
	return lo, true
}

func hexRun(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	var v rune
	for k := 0; k < n; k++ {
		c := s[i+k]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
