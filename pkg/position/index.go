// Package position maps character offsets to UTF-8 byte offsets and back.
//
// A character is one decoded rune. Bytes that do not form valid UTF-8 count
// as one character each, which is how a Go string converts to []rune, so
// every subject string has a well-defined character length.
package position

import (
	"sort"
	"unicode/utf8"
)

// Index is an immutable offset map for a single subject string.
// Only multi-byte characters are recorded, so ASCII input costs nothing.
type Index struct {
	byteLen int
	charLen int

	// For the i-th multi-byte character: its character offset, its byte
	// offset, and the number of extra bytes of all multi-byte characters up
	// to and including it.
	chars []int
	bytes []int
	extra []int
}

// New builds the index for s.
func New(s string) *Index {
	idx := &Index{byteLen: len(s)}

	extra := 0
	c := 0
	for b := 0; b < len(s); {
		if s[b] < utf8.RuneSelf {
			b++
			c++
			continue
		}
		_, w := utf8.DecodeRuneInString(s[b:])
		if w > 1 {
			extra += w - 1
			idx.chars = append(idx.chars, c)
			idx.bytes = append(idx.bytes, b)
			idx.extra = append(idx.extra, extra)
		}
		b += w
		c++
	}
	idx.charLen = c
	return idx
}

// ASCII reports whether every character is a single byte.
func (idx *Index) ASCII() bool {
	return len(idx.chars) == 0
}

// CharLen returns the length of the subject in characters.
func (idx *Index) CharLen() int {
	return idx.charLen
}

// ByteLen returns the length of the subject in bytes.
func (idx *Index) ByteLen() int {
	return idx.byteLen
}

// ByteOffset converts a character offset to a byte offset. Offsets outside
// [0, CharLen] are clamped.
func (idx *Index) ByteOffset(char int) int {
	if char <= 0 {
		return 0
	}
	if char >= idx.charLen {
		return idx.byteLen
	}
	// multi-byte characters strictly before char
	k := sort.SearchInts(idx.chars, char)
	if k == 0 {
		return char
	}
	return char + idx.extra[k-1]
}

// CharOffset converts a byte offset to a character offset. A byte offset in
// the middle of a multi-byte character maps to that character.
func (idx *Index) CharOffset(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= idx.byteLen {
		return idx.charLen
	}
	// multi-byte characters starting strictly before b
	k := sort.SearchInts(idx.bytes, b)
	if k == 0 {
		return b
	}
	last := k - 1
	prevExtra := 0
	if last > 0 {
		prevExtra = idx.extra[last-1]
	}
	width := idx.extra[last] - prevExtra + 1
	if b < idx.bytes[last]+width {
		return idx.chars[last]
	}
	return b - idx.extra[last]
}

// ByteSpan converts a character span to a byte span.
func (idx *Index) ByteSpan(start, end int) (int, int) {
	return idx.ByteOffset(start), idx.ByteOffset(end)
}

// CharSpan converts a byte span to a character span.
func (idx *Index) CharSpan(start, end int) (int, int) {
	return idx.CharOffset(start), idx.CharOffset(end)
}
