package ir

import "strings"

// EncodeString packs a string into SPIR-V literal words: UTF-8 bytes,
// null-terminated, little-endian, padded to a word boundary.
func EncodeString(s string) []uint32 {
	bytes := append([]byte(s), 0)
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}
	words := make([]uint32, 0, len(bytes)/4)
	for i := 0; i < len(bytes); i += 4 {
		word := uint32(bytes[i]) |
			uint32(bytes[i+1])<<8 |
			uint32(bytes[i+2])<<16 |
			uint32(bytes[i+3])<<24
		words = append(words, word)
	}
	return words
}

// DecodeString unpacks a null-terminated literal string starting at the
// beginning of words and returns it with the number of words it occupied.
func DecodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(words)
}

// stringWordCount returns the number of words occupied by the literal
// string at the beginning of words.
func stringWordCount(words []uint32) int {
	_, n := DecodeString(words)
	return n
}
