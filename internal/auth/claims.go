package auth

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

// Identity is the set of user facts carried by every token.
type Identity struct {
	UserID   string `json:"userId"`
	UserKey  string `json:"userKey"`
	Role     string `json:"role"`
	SchoolID string `json:"schoolId"`
}

// Claims describes the JWT payload for both token classes.
// SessionID and DeviceID are only set on short tokens.
type Claims struct {
	UserID    string `json:"userId"`
	UserKey   string `json:"userKey"`
	Role      string `json:"role"`
	SchoolID  string `json:"schoolId"`
	SessionID string `json:"sessionId,omitempty"`
	DeviceID  string `json:"deviceId,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user facts embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:   c.UserID,
		UserKey:  c.UserKey,
		Role:     c.Role,
		SchoolID: c.SchoolID,
	}
}

func (c *Claims) hasRequired(class TokenClass) bool {
	if c.UserID == "" || c.UserKey == "" {
		return false
	}
	if class == ShortToken && (c.SessionID == "" || c.DeviceID == "") {
		return false
	}
	return true
}
