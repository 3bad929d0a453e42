// Package token generates the unguessable identifiers used for inbox
// tokens and email local parts.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// localPartAlphabet is the 36-symbol alphabet used for generated local parts.
const localPartAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewToken draws length cryptographically random bytes, encodes them with
// the URL-safe base64 alphabet (no padding) and truncates the result to
// length characters. Tokens act as capabilities, so they must be
// indistinguishable from random.
func NewToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	s := base64.RawURLEncoding.EncodeToString(buf)
	return s[:length], nil
}

// NewLocalPart draws n random bytes, maps each onto a lowercase
// alphanumeric alphabet and prepends the configured prefix. Collisions with
// existing addresses are statistically negligible for n >= 8 and are not
// checked here.
func NewLocalPart(prefix string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = localPartAlphabet[int(b)%len(localPartAlphabet)]
	}
	return prefix + string(out), nil
}
