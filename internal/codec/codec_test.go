package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeadLengthDefaultsToOneOnMalformed(t *testing.T) {
	require.Equal(t, 1, LeadLength(0xFF))
	require.Equal(t, 1, LeadLength('a'))
	require.Equal(t, 2, LeadLength(0xC2))
	require.Equal(t, 3, LeadLength(0xE2))
	require.Equal(t, 4, LeadLength(0xF0))
}

func TestExtractRuneRecoversOneByteOnInvalidSequence(t *testing.T) {
	s := []byte{0xC2, 'x'} // lead byte claims 2 bytes, second isn't a continuation byte
	chars, length := ExtractRune(s, 0)
	require.Equal(t, 1, length)
	require.Equal(t, []byte{0xC2}, chars)
}

func TestExtractRuneAtEnd(t *testing.T) {
	chars, length := ExtractRune([]byte("a"), 1)
	require.Nil(t, chars)
	require.Equal(t, 0, length)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, cp := range []rune{0x00, 0x41, 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, MaxCodepoint} {
		encoded, err := EncodeRune(cp)
		require.NoError(t, err)
		require.Equal(t, cp, DecodeRune(encoded))
	}
}

func TestEncodeRuneRejectsSurrogatesAndOutOfRange(t *testing.T) {
	_, err := EncodeRune(0xD800)
	require.Error(t, err)
	_, err = EncodeRune(0xDFFF)
	require.Error(t, err)
	_, err = EncodeRune(MaxCodepoint + 1)
	require.Error(t, err)
}

func TestRuneCountIsAdditive(t *testing.T) {
	a := []byte("hello ")
	b := []byte("мир")
	require.Equal(t, RuneCount(a)+RuneCount(b), RuneCount(append(append([]byte{}, a...), b...)))
}

func TestIteratorWalksAllCharacters(t *testing.T) {
	it := NewIterator([]byte("aбc"))
	var seen [][]byte
	for !it.AtEnd() {
		seen = append(seen, it.Current())
		it.Next()
	}
	require.Len(t, seen, 3)
	require.Equal(t, []byte("a"), seen[0])
	require.Equal(t, []byte("б"), seen[1])
	require.Equal(t, []byte("c"), seen[2])
}
