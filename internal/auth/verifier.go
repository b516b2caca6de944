package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/config"
)

// failureReason is kept for operator logs only and never leaves the verifier.
type failureReason string

const (
	reasonMalformed            failureReason = "malformed"
	reasonInvalidSignature     failureReason = "invalid_signature"
	reasonExpired              failureReason = "expired"
	reasonUnsupportedAlgorithm failureReason = "unsupported_algorithm"
	reasonMissingClaims        failureReason = "missing_claims"
	reasonUnknownClass         failureReason = "unknown_class"
)

type verifyResult struct {
	claims *Claims
	reason failureReason
	err    error
}

func (r verifyResult) ok() bool {
	return r.claims != nil
}

// TokenVerifier validates long and short tokens against their class secret.
type TokenVerifier struct {
	signers map[TokenClass]*Signer
	logger  *zap.Logger
	now     func() time.Time
}

// NewTokenVerifier builds a verifier from the auth secrets.
func NewTokenVerifier(cfg config.AuthConfig, logger *zap.Logger) *TokenVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenVerifier{
		signers: map[TokenClass]*Signer{
			LongToken:  NewSigner(cfg.LongTokenSecret),
			ShortToken: NewSigner(cfg.ShortTokenSecret),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Verify returns the embedded claims when token carries a valid signature for
// class and has not expired. Every failure yields (nil, false).
func (v *TokenVerifier) Verify(token string, class TokenClass) (*Claims, bool) {
	res := v.verify(token, class)
	if !res.ok() {
		v.logger.Warn("token verification failed",
			zap.String("class", class.String()),
			zap.String("reason", string(res.reason)),
			zap.Error(res.err),
		)
		return nil, false
	}
	return res.claims, true
}

// VerifyLongToken verifies an identity token.
func (v *TokenVerifier) VerifyLongToken(token string) (*Claims, bool) {
	return v.Verify(token, LongToken)
}

// VerifyShortToken verifies a device-bound session token.
func (v *TokenVerifier) VerifyShortToken(token string) (*Claims, bool) {
	return v.Verify(token, ShortToken)
}

func (v *TokenVerifier) verify(token string, class TokenClass) verifyResult {
	signer, ok := v.signers[class]
	if !ok {
		return verifyResult{reason: reasonUnknownClass, err: unknownClassError(class)}
	}

	claims := &Claims{}
	if err := signer.Parse(token, claims, v.now); err != nil {
		return verifyResult{reason: classify(err), err: err}
	}
	if !claims.hasRequired(class) {
		return verifyResult{reason: reasonMissingClaims, err: jwt.ErrTokenRequiredClaimMissing}
	}
	return verifyResult{claims: claims}
}

func classify(err error) failureReason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return reasonExpired
	case errors.Is(err, errUnexpectedSigningMethod), errors.Is(err, jwt.ErrTokenUnverifiable):
		return reasonUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return reasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return reasonMissingClaims
	default:
		return reasonMalformed
	}
}
