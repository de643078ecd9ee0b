package dialect

import (
	"strconv"
	"strings"
)

// Options control a translation.
type Options struct {
	// BOMWhitespace makes \s and \S treat U+FEFF as whitespace.
	BOMWhitespace bool
	// Multiline is the effective multiline flag (the pattern's m flag or a
	// forced multiline search).
	Multiline bool
	// IgnoreCase is the i flag. Only dialects that carry flags inline use it.
	IgnoreCase bool
}

// Translation is the result of rewriting one source.
type Translation struct {
	// Source is the backend pattern.
	Source string
	// GroupCount is the number of capture groups in the JS source.
	GroupCount int
	// NegLookahead holds the groups opened inside a negative lookaround.
	// Their captures are never visible to JS code.
	NegLookahead GroupSet
	// Names maps group index to group name for named groups.
	Names map[int]string
}

type groupKind int

const (
	groupCapture groupKind = iota
	groupPlain
	groupNegLook
)

type translator struct {
	d    Dialect
	opts Options
	src  []rune
	out  strings.Builder

	inClass   bool
	negClass  bool
	stack     []groupKind
	negDepth  int
	captures  int
	negLook   GroupSet
	names     map[int]string
	nameIndex map[string]int

	// afterSet is set while the last class atom was a class escape like \s
	afterSet bool
}

// Translate rewrites a JavaScript regular expression source into dialect d.
// Translation never fails: ambiguous escapes are resolved deterministically
// and malformed escapes are passed through for the backend to reject.
func Translate(d Dialect, source string, opts Options) Translation {
	t := &translator{
		d:         d,
		opts:      opts,
		src:       []rune(source),
		names:     map[int]string{},
		nameIndex: scanGroupNames(source),
	}
	t.out.WriteString(d.prefix(opts))
	t.run()
	return Translation{
		Source:       t.out.String(),
		GroupCount:   t.captures,
		NegLookahead: t.negLook,
		Names:        t.names,
	}
}

func (t *translator) inNegLook() bool {
	return t.negDepth > 0
}

func (t *translator) peek(i int) rune {
	if i < 0 || i >= len(t.src) {
		return -1
	}
	return t.src[i]
}

func (t *translator) hasPrefix(i int, s string) bool {
	for _, r := range s {
		if t.peek(i) != r {
			return false
		}
		i++
	}
	return true
}

func (t *translator) run() {
	for i := 0; i < len(t.src); i++ {
		c := t.src[i]
		afterSet := t.afterSet
		t.afterSet = false
		switch c {
		case '\\':
			i = t.escape(i)
		case '-':
			// a class escape cannot bound a range: the dash is literal
			if t.inClass && (afterSet || t.isSetEscape(i+1)) {
				t.out.WriteString(`\-`)
			} else {
				t.out.WriteByte('-')
			}
		case '[':
			i = t.openClass(i)
		case ']':
			if t.inClass {
				t.inClass = false
				t.negClass = false
			}
			t.out.WriteByte(']')
		case '(':
			i = t.openGroup(i)
		case ')':
			t.closeGroup()
		case '{':
			t.brace(i)
		case '.':
			if t.inClass {
				t.out.WriteByte('.')
			} else {
				t.out.WriteString(t.d.dot())
			}
		case '^':
			if t.inClass {
				t.out.WriteByte('^')
			} else {
				t.out.WriteString(t.d.lineStart(t.opts.Multiline))
			}
		case '$':
			if t.inClass {
				t.out.WriteByte('$')
			} else {
				t.out.WriteString(t.d.lineEnd(t.opts.Multiline))
			}
		default:
			t.out.WriteRune(c)
		}
	}
}

func (t *translator) openClass(i int) int {
	if t.inClass {
		t.out.WriteString(`\[`)
		return i
	}
	switch {
	case t.hasPrefix(i, "[^]"):
		t.out.WriteString(t.d.anyClass())
		return i + 2
	case t.hasPrefix(i, "[]"):
		t.out.WriteString(t.d.emptyClass())
		return i + 1
	case t.hasPrefix(i, `[^\S]`):
		t.out.WriteString("[" + t.d.whitespaceRun(t.opts.BOMWhitespace) + "]")
		return i + 4
	}
	t.inClass = true
	t.out.WriteByte('[')
	if t.peek(i+1) == '^' {
		t.negClass = true
		t.out.WriteByte('^')
		return i + 1
	}
	return i
}

func (t *translator) openGroup(i int) int {
	if t.inClass {
		t.out.WriteByte('(')
		return i
	}
	switch {
	case t.hasPrefix(i, "(?!"), t.hasPrefix(i, "(?<!"):
		t.stack = append(t.stack, groupNegLook)
		t.negDepth++
	case t.hasPrefix(i, "(?<") && !t.hasPrefix(i, "(?<="):
		// named capture group, written as a plain group so numbering
		// follows source order in every backend
		end := i + 3
		for end < len(t.src) && t.src[end] != '>' {
			end++
		}
		if end < len(t.src) {
			t.capture()
			t.names[t.captures] = string(t.src[i+3 : end])
			t.out.WriteByte('(')
			return end
		}
		t.stack = append(t.stack, groupPlain)
	case t.peek(i+1) == '?':
		t.stack = append(t.stack, groupPlain)
	default:
		t.capture()
	}
	t.out.WriteByte('(')
	return i
}

func (t *translator) capture() {
	t.captures++
	t.stack = append(t.stack, groupCapture)
	if t.inNegLook() {
		t.negLook.Add(t.captures)
	}
}

func (t *translator) closeGroup() {
	if !t.inClass && len(t.stack) > 0 {
		kind := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		if kind == groupNegLook {
			t.negDepth--
		}
	}
	t.out.WriteByte(')')
}

// brace keeps '{' only when it starts {n}, {n,} or {n,m}.
func (t *translator) brace(i int) {
	if t.inClass {
		t.out.WriteByte('{')
		return
	}
	j := i + 1
	n := t.digits(j)
	j += n
	if n == 0 || j >= len(t.src) {
		t.out.WriteString(`\{`)
		return
	}
	if t.src[j] == '}' {
		t.out.WriteByte('{')
		return
	}
	if t.src[j] != ',' {
		t.out.WriteString(`\{`)
		return
	}
	j++
	j += t.digits(j)
	if j < len(t.src) && t.src[j] == '}' {
		t.out.WriteByte('{')
		return
	}
	t.out.WriteString(`\{`)
}

// isSetEscape reports whether a character class escape starts at i.
func (t *translator) isSetEscape(i int) bool {
	if t.peek(i) != '\\' {
		return false
	}
	switch t.peek(i + 1) {
	case 'd', 'D', 's', 'S', 'w', 'W':
		return true
	}
	return false
}

func (t *translator) digits(i int) int {
	start := i
	for i < len(t.src) && isDigit(t.src[i]) {
		i++
	}
	return i - start
}

// escape translates the escape sequence starting at the backslash at i and
// returns the index of its last consumed character.
func (t *translator) escape(i int) int {
	if i+1 >= len(t.src) {
		// dangling backslash, left for the backend to reject
		t.out.WriteByte('\\')
		return i
	}
	i++
	c := t.src[i]
	switch c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		t.afterSet = t.inClass
	}
	switch {
	case isDigit(c):
		return t.digitEscape(i)
	case c == 'v':
		t.out.WriteString(t.d.hex(0x0b))
	case c == 'b':
		if t.inClass {
			t.out.WriteString(t.d.hex(0x08))
		} else {
			t.out.WriteString(`\b`)
		}
	case c == 'B':
		if t.inClass {
			t.out.WriteByte('B')
		} else {
			t.out.WriteString(`\B`)
		}
	case c == 's':
		ws := t.d.whitespaceRun(t.opts.BOMWhitespace)
		if t.inClass {
			t.out.WriteString(ws)
		} else {
			t.out.WriteString("[" + ws + "]")
		}
	case c == 'S':
		if t.inClass {
			t.out.WriteString(t.d.nonWhitespaceRun(t.opts.BOMWhitespace))
		} else {
			t.out.WriteString("[^" + t.d.whitespaceRun(t.opts.BOMWhitespace) + "]")
		}
	case c == 'd' || c == 'D' || c == 'w' || c == 'W',
		c == 'f' || c == 'n' || c == 'r' || c == 't':
		t.out.WriteByte('\\')
		t.out.WriteRune(c)
	case c == 'c':
		if x := t.peek(i + 1); isASCIILetter(x) {
			t.out.WriteString(t.d.hex(x % 32))
			return i + 1
		}
		// not a control escape: a literal backslash followed by 'c'
		t.out.WriteString(`\\c`)
	case c == 'x':
		if v, ok := t.hexDigits(i+1, 2); ok {
			t.out.WriteString(t.d.hex(v))
			return i + 2
		}
		t.out.WriteString(`\x`)
	case c == 'u':
		return t.unicodeEscape(i)
	case c == 'k':
		return t.namedBackref(i)
	case isASCIILetter(c) || c == '_' || c >= 0x80:
		// identity escape
		t.out.WriteRune(c)
	default:
		t.out.WriteByte('\\')
		t.out.WriteRune(c)
	}
	return i
}

// digitEscape disambiguates backreferences from octal escapes. i is the
// index of the first digit.
func (t *translator) digitEscape(i int) int {
	if !t.inClass {
		// multi-digit backreference such as \12
		n := t.digits(i)
		if n > 1 && t.src[i] != '0' {
			if v, err := strconv.Atoi(string(t.src[i : i+n])); err == nil && v <= t.captures {
				t.backref(v, i+n-1)
				return i + n - 1
			}
		}
		if d := int(t.src[i] - '0'); d >= 1 && d <= t.captures {
			t.backref(d, i)
			return i
		}
	}

	c := t.src[i]
	if c > '7' {
		t.out.WriteRune(c)
		return i
	}

	// octal: a leading 0-3 takes up to two more digits, 4-7 up to one more
	num := rune(c - '0')
	more := 2
	if c > '3' {
		more = 1
	}
	for k := 0; k < more; k++ {
		next := t.peek(i + 1)
		if next < '0' || next > '7' {
			break
		}
		i++
		num = num<<3 | (next - '0')
	}
	t.out.WriteString(t.d.hex(num))
	return i
}

// backref writes a reference to group n. last is the index of the final
// source character of the reference.
func (t *translator) backref(n, last int) {
	if !t.inNegLook() && t.negLook.Has(n) {
		// the group lives in a closed negative lookahead and never matches
		// anything visible from here
		if isQuantifier(t.peek(last + 1)) {
			t.out.WriteString("(?:)")
		}
		return
	}
	ref := `\` + strconv.Itoa(n)
	if isDigit(t.peek(last + 1)) {
		ref = "(?:" + ref + ")"
	}
	t.out.WriteString(ref)
}

func (t *translator) namedBackref(i int) int {
	if len(t.nameIndex) == 0 || t.peek(i+1) != '<' {
		t.out.WriteByte('k')
		return i
	}
	end := i + 2
	for end < len(t.src) && t.src[end] != '>' {
		end++
	}
	if end >= len(t.src) {
		t.out.WriteString(`\k`)
		return i
	}
	n, ok := t.nameIndex[string(t.src[i+2:end])]
	if !ok {
		// unknown name, left for the backend to reject
		t.out.WriteString(`\k`)
		return i
	}
	if n > t.captures {
		// forward reference matches the empty string
		if isQuantifier(t.peek(end + 1)) {
			t.out.WriteString("(?:)")
		}
		return end
	}
	t.backref(n, end)
	return end
}

func (t *translator) unicodeEscape(i int) int {
	v, ok := t.hexDigits(i+1, 4)
	if !ok {
		t.out.WriteString(`\u`)
		return i
	}
	end := i + 4
	if v >= 0xd800 && v <= 0xdbff && t.hasPrefix(end+1, `\u`) {
		if lo, ok := t.hexDigits(end+3, 4); ok && lo >= 0xdc00 && lo <= 0xdfff {
			v = 0x10000 + (v-0xd800)<<10 + (lo - 0xdc00)
			end += 6
		}
	}
	t.out.WriteString(t.d.hex(v))
	return end
}

func (t *translator) hexDigits(i, n int) (rune, bool) {
	if i+n > len(t.src) {
		return 0, false
	}
	var v rune
	for k := 0; k < n; k++ {
		h, ok := hexValue(t.src[i+k])
		if !ok {
			return 0, false
		}
		v = v<<4 | h
	}
	return v, true
}

// scanGroupNames finds named capture groups and their indexes.
func scanGroupNames(source string) map[string]int {
	src := []rune(source)
	names := map[string]int{}
	inClass := false
	n := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if inClass {
				continue
			}
			if i+1 < len(src) && src[i+1] == '?' {
				if i+2 < len(src) && src[i+2] == '<' && i+3 < len(src) && src[i+3] != '=' && src[i+3] != '!' {
					n++
					end := i + 3
					for end < len(src) && src[end] != '>' {
						end++
					}
					if end < len(src) {
						names[string(src[i+3:end])] = n
					}
				}
				continue
			}
			n++
		}
	}
	return names
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isQuantifier(r rune) bool {
	return r == '*' || r == '+' || r == '?' || r == '{'
}

func hexValue(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}
