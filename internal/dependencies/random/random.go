package random

import (
	"crypto/rand"
	"math/big"
)

// CodeAlphabet avoids characters that are easy to misread when shared aloud
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Random generates identifiers and can be mocked for testing
type Random interface {
	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	n := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)
	for i := range result {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			idx = big.NewInt(0)
		}
		result[i] = alphabet[idx.Int64()]
	}
	return string(result)
}
