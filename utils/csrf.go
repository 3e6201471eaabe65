package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// NewCSRFToken returns a 32-byte random token, hex encoded.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// VerifyCSRFToken compares tokens in constant time.
func VerifyCSRFToken(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
