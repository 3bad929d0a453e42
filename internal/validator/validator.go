// Package validator checks the shape of capability strings arriving on
// API paths. A malformed token or message id is treated the same as an
// unknown one further up the stack, so these checks gate lookups rather
// than produce their own error class.
package validator

import (
	"errors"
	"regexp"
)

// Validation errors
var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrInvalidMessageID = errors.New("invalid message id format")
)

var (
	// Inbox tokens: URL-safe base64 alphabet, at least 10 characters.
	tokenRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

	// Message ids additionally allow ':' and '.', covering UUIDs and
	// provider-style identifiers.
	messageIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]{10,}$`)
)

// ValidateToken checks an inbox token's shape.
func ValidateToken(token string) error {
	if !tokenRegex.MatchString(token) {
		return ErrInvalidToken
	}
	return nil
}

// ValidateMessageID checks a message id's shape.
func ValidateMessageID(id string) error {
	if !messageIDRegex.MatchString(id) {
		return ErrInvalidMessageID
	}
	return nil
}
