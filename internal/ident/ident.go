// Package ident generates record identifiers and short shareable trip codes.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
)

// codeAlphabet is the character set for trip codes. Codes are stored upper
// case and compared case-insensitively.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID returns a fresh random record identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

// NewTripCode returns a random code of domain.TripCodeLength characters
// drawn uniformly from [A-Z0-9]. Uniqueness is the caller's concern.
func NewTripCode() (string, error) {
	var b strings.Builder
	b.Grow(domain.TripCodeLength)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for range domain.TripCodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("ident.NewTripCode: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode trims surrounding whitespace and upper-cases s so that
// lookups are case-insensitive.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCode reports whether s, after normalization, has the trip code shape.
func ValidCode(s string) bool {
	s = NormalizeCode(s)
	if len(s) != domain.TripCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
