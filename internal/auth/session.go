package auth

import "github.com/google/uuid"

// SessionIDFunc mints a new session id per short token issuance.
type SessionIDFunc func() string

// NewSessionID returns a random v4 UUID string.
func NewSessionID() string {
	return uuid.NewString()
}
