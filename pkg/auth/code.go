package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	DefaultCodeLength = 6
	MaxCodeLength     = 10
)

var ten = big.NewInt(10)

// GenerateNumericCode produces a code of length decimal digits, each digit
// drawn independently and uniformly from a cryptographically secure source.
// No uniqueness guarantee across calls.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	if length > MaxCodeLength {
		return "", fmt.Errorf("code length %d exceeds maximum of %d", length, MaxCodeLength)
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate code digit: %w", err)
		}
		digits[i] = byte('0') + byte(n.Int64())
	}

	return string(digits), nil
}

// SecureCompare reports whether two codes are equal without leaking the
// position of the first mismatch through timing.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
