package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/events"
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// CreateShortTokenInput carries the session-injected values of token.createShortToken.
type CreateShortTokenInput struct {
	LongToken *auth.Claims `json:"__longToken"`
	Device    string       `json:"__device"`
}

// TokenService exposes session token minting to the dispatch registry.
type TokenService struct {
	issuer *auth.TokenIssuer
	events events.Dispatcher
	logger *zap.Logger
}

// NewTokenService builds the service.
func NewTokenService(issuer *auth.TokenIssuer, dispatcher events.Dispatcher, logger *zap.Logger) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{issuer: issuer, events: dispatcher, logger: logger}
}

// CreateShortToken mints a device-bound short token from verified long token
// claims. A missing device descriptor is fingerprinted like any other value.
func (s *TokenService) CreateShortToken(ctx context.Context, in CreateShortTokenInput) (*auth.ShortTokenResult, error) {
	if in.LongToken == nil {
		return nil, apperrors.NewUnauthorized("long token required")
	}

	res, err := s.issuer.CreateShortToken(in.LongToken, in.Device)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.events, s.logger, events.Event{
		Type:     events.EventShortTokenIssued,
		UserID:   in.LongToken.UserID,
		SchoolID: in.LongToken.SchoolID,
		Payload:  events.ShortTokenIssuedPayload{SessionID: res.SessionID, DeviceID: res.DeviceID},
	})
	return res, nil
}
