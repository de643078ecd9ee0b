package dialect

import "strings"

type runeRange struct {
	lo, hi rune
}

// whitespace is the JS WhiteSpace and LineTerminator set, excluding U+FEFF.
var whitespace = []runeRange{
	{0x0009, 0x000d},
	{0x0020, 0x0020},
	{0x00a0, 0x00a0},
	{0x1680, 0x1680},
	{0x2000, 0x200a},
	{0x2028, 0x2029},
	{0x202f, 0x202f},
	{0x205f, 0x205f},
	{0x3000, 0x3000},
}

const bom = 0xfeff

func whitespaceSet(bomWs bool) []runeRange {
	set := whitespace
	if bomWs {
		set = append(append([]runeRange(nil), whitespace...), runeRange{bom, bom})
	}
	return set
}

// complement returns the ranges of [0, U+10FFFF] not covered by set.
// set must be sorted and non-overlapping.
func complement(set []runeRange) []runeRange {
	var out []runeRange
	next := rune(0)
	for _, r := range set {
		if r.lo > next {
			out = append(out, runeRange{next, r.lo - 1})
		}
		next = r.hi + 1
	}
	if next <= 0x10ffff {
		out = append(out, runeRange{next, 0x10ffff})
	}
	return out
}

func (d Dialect) writeRanges(b *strings.Builder, set []runeRange) {
	for _, r := range set {
		b.WriteString(d.hex(r.lo))
		if r.hi != r.lo {
			b.WriteByte('-')
			b.WriteString(d.hex(r.hi))
		}
	}
}

// whitespaceRun returns the \s set as a class body, without brackets.
func (d Dialect) whitespaceRun(bomWs bool) string {
	var b strings.Builder
	d.writeRanges(&b, whitespaceSet(bomWs))
	return b.String()
}

// nonWhitespaceRun returns the \S set as a class body, without brackets.
func (d Dialect) nonWhitespaceRun(bomWs bool) string {
	var b strings.Builder
	d.writeRanges(&b, complement(whitespaceSet(bomWs)))
	return b.String()
}
