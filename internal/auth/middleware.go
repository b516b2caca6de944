package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// Keys of session-injected values in a dispatch input.
const (
	KeyLongToken  = "__longToken"
	KeyShortToken = "__shortToken"
	KeyDevice     = "__device"
)

// TokenHeader carries either token class on incoming requests.
const TokenHeader = "token"

const claimsKey = "auth_claims"

// Injector resolves session values from a request before dispatch.
type Injector struct {
	verifier *TokenVerifier
}

// NewInjector constructs an injector backed by the verifier.
func NewInjector(verifier *TokenVerifier) *Injector {
	return &Injector{verifier: verifier}
}

// Inject returns the value for key. Token keys fail with an unauthorized
// error when the header is missing or does not verify.
func (i *Injector) Inject(c *fiber.Ctx, key string) (any, error) {
	switch key {
	case KeyDevice:
		return Device(c), nil
	case KeyLongToken:
		claims, err := i.verify(c, LongToken)
		if err != nil {
			return nil, err
		}
		return claims, nil
	case KeyShortToken:
		claims, err := i.verify(c, ShortToken)
		if err != nil {
			return nil, err
		}
		if claims.DeviceID != Fingerprint(Device(c)) {
			return nil, apperrors.NewUnauthorized("token not issued for this device")
		}
		return claims, nil
	default:
		return nil, apperrors.NewInternalError(nil)
	}
}

func (i *Injector) verify(c *fiber.Ctx, class TokenClass) (*Claims, error) {
	raw := c.Get(TokenHeader)
	if raw == "" {
		return nil, apperrors.NewUnauthorized("missing token header")
	}
	claims, ok := i.verifier.Verify(raw, class)
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	c.Locals(claimsKey, claims)
	return claims, nil
}

// Device returns the raw device descriptor of the request.
func Device(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderUserAgent)
}

// ClaimsFromContext retrieves the claims verified for this request, if any.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
