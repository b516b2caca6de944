package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/config"
)

var errMissingLongClaims = errors.New("create short token: missing long token claims")

// ShortTokenResult is returned by CreateShortToken.
// SessionID and DeviceID mirror the token's claims and stay off the wire.
type ShortTokenResult struct {
	ShortToken string `json:"shortToken"`
	SessionID  string `json:"-"`
	DeviceID   string `json:"-"`
}

// TokenIssuer mints signed long and short tokens.
type TokenIssuer struct {
	long       *Signer
	short      *Signer
	logger     *zap.Logger
	now        func() time.Time
	newSession SessionIDFunc
}

// NewTokenIssuer builds an issuer from the auth secrets.
func NewTokenIssuer(cfg config.AuthConfig, logger *zap.Logger) *TokenIssuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenIssuer{
		long:       NewSigner(cfg.LongTokenSecret),
		short:      NewSigner(cfg.ShortTokenSecret),
		logger:     logger,
		now:        time.Now,
		newSession: NewSessionID,
	}
}

// IssueLongToken signs an identity token valid for LongTokenTTL.
func (i *TokenIssuer) IssueLongToken(id Identity) (string, error) {
	claims := &Claims{
		UserID:           id.UserID,
		UserKey:          id.UserKey,
		Role:             id.Role,
		SchoolID:         id.SchoolID,
		RegisteredClaims: i.registered(LongToken),
	}
	token, err := i.long.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign long token: %w", err)
	}
	return token, nil
}

// IssueShortToken signs a session token bound to sessionID and deviceID.
func (i *TokenIssuer) IssueShortToken(id Identity, sessionID, deviceID string) (string, error) {
	claims := &Claims{
		UserID:           id.UserID,
		UserKey:          id.UserKey,
		Role:             id.Role,
		SchoolID:         id.SchoolID,
		SessionID:        sessionID,
		DeviceID:         deviceID,
		RegisteredClaims: i.registered(ShortToken),
	}
	token, err := i.short.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign short token: %w", err)
	}
	return token, nil
}

// CreateShortToken derives a session token from already verified long token
// claims. The caller is responsible for that verification.
func (i *TokenIssuer) CreateShortToken(longClaims *Claims, rawDevice string) (*ShortTokenResult, error) {
	if longClaims == nil {
		return nil, errMissingLongClaims
	}

	deviceID := Fingerprint(rawDevice)
	sessionID := i.newSession()

	token, err := i.IssueShortToken(longClaims.Identity(), sessionID, deviceID)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("short token issued",
		zap.String("user_id", longClaims.UserID),
		zap.String("school_id", longClaims.SchoolID),
		zap.String("session_id", sessionID),
		zap.String("device_id", deviceID),
	)
	return &ShortTokenResult{ShortToken: token, SessionID: sessionID, DeviceID: deviceID}, nil
}

func (i *TokenIssuer) registered(class TokenClass) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(class.TTL())),
	}
}
