// Package knol fingerprints card content so imports can recognise cards that
// already exist.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/cardb/internal/domain"
)

// Normalize joins the pair's sides after cleaning each one.
// It trims whitespace, lowercases and normalizes line endings.
func Normalize(p domain.Pair) string {
	normalizePart := func(part string) string {
		s := strings.ToLower(part)
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.TrimSpace(s)
	}

	// A newline keeps "ab"+"c" and "a"+"bc" apart.
	return normalizePart(p.Front) + "\n" + normalizePart(p.Back)
}

// Fingerprint returns the SHA-256 of the normalized pair as a hex string.
func Fingerprint(p domain.Pair) string {
	sum := sha256.Sum256([]byte(Normalize(p)))
	return fmt.Sprintf("%x", sum)
}

// Set is a collection of fingerprints.
type Set map[string]struct{}

// NewSet fingerprints every card.
func NewSet(cards []domain.Card) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s.Add(domain.Pair{Front: c.Front, Back: c.Back})
	}
	return s
}

// Add records p and reports whether it was new.
func (s Set) Add(p domain.Pair) bool {
	fp := Fingerprint(p)
	if _, ok := s[fp]; ok {
		return false
	}
	s[fp] = struct{}{}
	return true
}
