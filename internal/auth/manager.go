package auth

import (
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/config"
)

// TokenManager bundles the issuer and verifier built from one AuthConfig.
type TokenManager struct {
	Issuer   *TokenIssuer
	Verifier *TokenVerifier
}

// NewTokenManager builds both halves from the same secrets.
func NewTokenManager(cfg config.AuthConfig, logger *zap.Logger) *TokenManager {
	return &TokenManager{
		Issuer:   NewTokenIssuer(cfg, logger),
		Verifier: NewTokenVerifier(cfg, logger),
	}
}
