package auth

import (
	"fmt"
	"time"
)

// TokenClass selects the secret and lifetime a token is signed with.
type TokenClass string

const (
	LongToken  TokenClass = "long"
	ShortToken TokenClass = "short"
)

// year follows the 365.25 day convention used by duration strings like "3y".
const year = 365*24*time.Hour + 6*time.Hour

const (
	LongTokenTTL  = 3 * year
	ShortTokenTTL = 1 * year
)

// TTL returns the fixed lifetime of the class.
func (c TokenClass) TTL() time.Duration {
	if c == LongToken {
		return LongTokenTTL
	}
	return ShortTokenTTL
}

func (c TokenClass) String() string {
	return string(c)
}

func unknownClassError(c TokenClass) error {
	return fmt.Errorf("unknown token class %q", string(c))
}
