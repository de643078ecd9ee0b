package prefilter

import "strings"

// Extract derives one required literal per top-level alternative of a
// JavaScript regular expression source. ok is false when some alternative
// has no required literal or when case folding is on.
func Extract(source string, ignoreCase bool) (keywords []string, ok bool) {
	if ignoreCase {
		return nil, false
	}
	for _, alt := range splitAlternatives([]rune(source)) {
		kw := longestRun(alt)
		if kw == "" {
			return nil, false
		}
		keywords = append(keywords, kw)
	}
	return keywords, len(keywords) > 0
}

// splitAlternatives splits at '|' outside groups and classes.
func splitAlternatives(src []rune) [][]rune {
	var alts [][]rune
	depth := 0
	inClass := false
	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if !inClass {
				depth++
			}
		case ')':
			if !inClass && depth > 0 {
				depth--
			}
		case '|':
			if !inClass && depth == 0 {
				alts = append(alts, src[start:i])
				start = i + 1
			}
		}
	}
	return append(alts, src[start:])
}

// longestRun returns the longest sequence of literal characters that every
// match of alt must contain.
func longestRun(alt []rune) string {
	var best, cur strings.Builder
	flush := func() {
		if len([]rune(cur.String())) > len([]rune(best.String())) {
			best.Reset()
			best.WriteString(cur.String())
		}
		cur.Reset()
	}

	for i := 0; i < len(alt); {
		lit, next, isLit := atom(alt, i)
		if !isLit {
			flush()
			i = next
			continue
		}
		switch q := quantifierAt(alt, next); q {
		case quantOptional:
			flush()
			i = skipQuantifier(alt, next)
		case quantRepeat:
			cur.WriteRune(lit)
			flush()
			i = skipQuantifier(alt, next)
		default:
			cur.WriteRune(lit)
			i = next
		}
	}
	flush()
	return best.String()
}

// atom reads one atom at i. For a literal character it returns the
// character and true; otherwise it skips the atom (group, class, escape
// class, anchor) and returns false.
func atom(src []rune, i int) (rune, int, bool) {
	c := src[i]
	switch c {
	case '(':
		depth := 0
		inClass := false
		for j := i; j < len(src); j++ {
			switch src[j] {
			case '\\':
				j++
			case '[':
				inClass = true
			case ']':
				inClass = false
			case '(':
				if !inClass {
					depth++
				}
			case ')':
				if !inClass {
					depth--
					if depth == 0 {
						return 0, j + 1, false
					}
				}
			}
		}
		return 0, len(src), false
	case '[':
		for j := i + 1; j < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if src[j] == ']' {
				return 0, j + 1, false
			}
		}
		return 0, len(src), false
	case '\\':
		if i+1 >= len(src) {
			return 0, len(src), false
		}
		e := src[i+1]
		if isPunct(e) {
			return e, i + 2, true
		}
		switch e {
		case 'n':
			return '\n', i + 2, true
		case 't':
			return '\t', i + 2, true
		case 'r':
			return '\r', i + 2, true
		case 'f':
			return '\f', i + 2, true
		case 'k':
			if i+2 < len(src) && src[i+2] == '<' {
				if end := indexRune(src, i+3, '>'); end >= 0 {
					return 0, end + 1, false
				}
			}
		case 'c':
			if i+2 < len(src) && isASCIILetter(src[i+2]) {
				return 0, i + 3, false
			}
		case 'x':
			return 0, skipHex(src, i+2, 2), false
		case 'u':
			return 0, skipHex(src, i+2, 4), false
		}
		if e >= '0' && e <= '9' {
			j := i + 2
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			return 0, j, false
		}
		return 0, i + 2, false
	case '.', '^', '$', '*', '+', '?', '{', '}', ')', ']', '|':
		return 0, i + 1, false
	}
	return c, i + 1, true
}

type quant int

const (
	quantNone quant = iota
	quantOptional
	quantRepeat
)

// quantifierAt classifies a quantifier starting at i. Brace quantifiers are
// treated as optional, which is conservative for {n} with n >= 1.
func quantifierAt(src []rune, i int) quant {
	if i >= len(src) {
		return quantNone
	}
	switch src[i] {
	case '*', '?':
		return quantOptional
	case '+':
		return quantRepeat
	case '{':
		if validBrace(src, i) {
			return quantOptional
		}
	}
	return quantNone
}

// validBrace reports whether the brace at i starts {n}, {n,} or {n,m}.
func validBrace(src []rune, i int) bool {
	j := i + 1
	digits := 0
	for j < len(src) && src[j] >= '0' && src[j] <= '9' {
		j++
		digits++
	}
	if digits == 0 || j >= len(src) {
		return false
	}
	if src[j] == ',' {
		j++
		for j < len(src) && src[j] >= '0' && src[j] <= '9' {
			j++
		}
	}
	return j < len(src) && src[j] == '}'
}

func skipQuantifier(src []rune, i int) int {
	if src[i] == '{' {
		for src[i] != '}' {
			i++
		}
	}
	i++
	if i < len(src) && src[i] == '?' {
		i++
	}
	return i
}

func isPunct(r rune) bool {
	return strings.ContainsRune(`\^$*+?[](){}|.-/,:;!"'#%&<=>@_~`+"`", r)
}

func indexRune(src []rune, from int, r rune) int {
	for j := from; j < len(src); j++ {
		if src[j] == r {
			return j
		}
	}
	return -1
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// skipHex skips at most n hex digits starting at i.
func skipHex(src []rune, i, n int) int {
	for ; n > 0 && i < len(src); n-- {
		r := src[i]
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') && !(r >= 'A' && r <= 'F') {
			break
		}
		i++
	}
	return i
}
