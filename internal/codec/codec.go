// Package codec implements the byte/codepoint conversions the grammar
// front end and tokeniser need, with no hidden substitution on
// malformed input: an invalid sequence yields its first raw byte
// rather than U+FFFD, matching how a grammar source's own malformed
// bytes must be visible to diagnostics rather than swallowed.
package codec

import (
	"github.com/bnfgen/bnfgen"
)

const ErrInvalidCodepoint = bnfgen.CodecErrors + 1

// MaxCodepoint is the highest valid Unicode scalar value.
const MaxCodepoint = 0x10FFFF

// LeadLength returns the byte length (1-4) indicated by a UTF-8 lead
// byte, defaulting to 1 for a lead byte that doesn't match any of the
// four recognised bit patterns.
func LeadLength(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 1
}

// ValidSequence reports whether s[pos:pos+length] is a well-formed
// UTF-8 sequence of exactly length bytes: in range, and (for
// multi-byte sequences) every byte after the lead byte is a
// continuation byte.
func ValidSequence(s []byte, pos, length int) bool {
	if pos+length > len(s) {
		return false
	}
	if length == 1 {
		return s[pos]&0x80 == 0
	}
	for i := 1; i < length; i++ {
		if s[pos+i]&0xC0 != 0x80 {
			return false
		}
	}
	return true
}

// ExtractRune returns the bytes of the character starting at pos and
// its length. On a malformed sequence it returns a single raw byte
// rather than substituting a replacement character. Returns (nil, 0)
// at or past the end of s.
func ExtractRune(s []byte, pos int) (chars []byte, length int) {
	if pos >= len(s) {
		return nil, 0
	}

	length = LeadLength(s[pos])
	if !ValidSequence(s, pos, length) {
		return s[pos : pos+1], 1
	}
	return s[pos : pos+length], length
}

// EncodeRune encodes a Unicode scalar value as UTF-8. It fails with
// ErrInvalidCodepoint for surrogates (U+D800..U+DFFF) or values beyond
// U+10FFFF — the same range the grammar's CharRange invariant rejects.
func EncodeRune(cp rune) ([]byte, error) {
	if cp < 0 || cp > MaxCodepoint || (cp >= 0xD800 && cp <= 0xDFFF) {
		return nil, bnfgen.FormatError(ErrInvalidCodepoint, "invalid codepoint U+%04X", cp)
	}

	switch {
	case cp < 0x80:
		return []byte{byte(cp)}, nil
	case cp < 0x800:
		return []byte{
			0xC0 | byte(cp>>6),
			0x80 | byte(cp&0x3F),
		}, nil
	case cp < 0x10000:
		return []byte{
			0xE0 | byte(cp>>12),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}, nil
	default:
		return []byte{
			0xF0 | byte(cp>>18),
			0x80 | byte((cp>>12)&0x3F),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}, nil
	}
}

// DecodeRune returns the codepoint of the first character in s, or 0
// if s is empty or malformed past the point ExtractRune can recover.
func DecodeRune(s []byte) rune {
	chars, length := ExtractRune(s, 0)
	if length == 0 {
		return 0
	}
	if length != len(chars) {
		length = len(chars)
	}

	switch length {
	case 1:
		return rune(chars[0])
	case 2:
		return rune(chars[0]&0x1F)<<6 | rune(chars[1]&0x3F)
	case 3:
		return rune(chars[0]&0x0F)<<12 | rune(chars[1]&0x3F)<<6 | rune(chars[2]&0x3F)
	case 4:
		return rune(chars[0]&0x07)<<18 | rune(chars[1]&0x3F)<<12 | rune(chars[2]&0x3F)<<6 | rune(chars[3]&0x3F)
	}
	return 0
}

// RuneCount counts characters in s, each possibly-malformed sequence
// counting as one character per ExtractRune's recovery rule.
func RuneCount(s []byte) int {
	count := 0
	pos := 0
	for pos < len(s) {
		_, length := ExtractRune(s, pos)
		if length == 0 {
			break
		}
		pos += length
		count++
	}
	return count
}

// IsWhitespace reports whether a single extracted character is ASCII
// whitespace. Unicode whitespace beyond ASCII is not currently
// recognised.
func IsWhitespace(chars []byte) bool {
	if len(chars) != 1 {
		return false
	}
	switch chars[0] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Iterator walks the characters of a byte slice in order, yielding
// byte position, character index, and character bytes at each step.
type Iterator struct {
	s       []byte
	pos     int
	charIdx int
}

// NewIterator returns an Iterator positioned at the start of s.
func NewIterator(s []byte) *Iterator {
	return &Iterator{s: s}
}

// AtEnd reports whether the iterator has exhausted s.
func (it *Iterator) AtEnd() bool {
	return it.pos >= len(it.s)
}

// Current returns the bytes of the character at the iterator's
// current position, or nil at end.
func (it *Iterator) Current() []byte {
	if it.AtEnd() {
		return nil
	}
	chars, _ := ExtractRune(it.s, it.pos)
	return chars
}

// Position returns the current byte offset.
func (it *Iterator) Position() int {
	return it.pos
}

// CharIndex returns the current character index.
func (it *Iterator) CharIndex() int {
	return it.charIdx
}

// Next advances the iterator by one character. A no-op at end.
func (it *Iterator) Next() {
	if it.AtEnd() {
		return
	}
	_, length := ExtractRune(it.s, it.pos)
	if length == 0 {
		it.pos = len(it.s)
		return
	}
	it.pos += length
	it.charIdx++
}
