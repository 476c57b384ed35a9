package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// Embed returns a simple deterministic embedding for the given text,
// built from its length, vowel count and consonant count. Coarse, but
// enough for similarity ordering over a personal meal collection.
func Embed(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants})
}
