// Package otp generates and compares the fixed-length numeric one-time codes
// used as the second login factor.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const codeDigits = 6

// GenerateCode returns a 6-digit numeric code string (e.g. "123456").
// Uses crypto/rand for randomness.
func GenerateCode() (string, error) {
	b := make([]byte, codeDigits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := make([]byte, codeDigits)
	for i := 0; i < codeDigits; i++ {
		s[i] = '0' + (b[i] % 10)
	}
	return string(s), nil
}

// HashCode returns a SHA-256 hash of the code string, hex-encoded. Codes are
// stored hashed; the plaintext exists only in transit to the account holder.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// CodeEqual performs constant-time comparison of the provided code's hash with the stored hash.
func CodeEqual(providedCode, storedHash string) bool {
	providedHash := HashCode(providedCode)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
