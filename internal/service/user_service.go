package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/config"
	"github.com/spec-kit/school-auth-service/internal/domain"
	"github.com/spec-kit/school-auth-service/internal/events"
	"github.com/spec-kit/school-auth-service/internal/repository"
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// CreateUserInput payload for user.createUser. Self-registration always
// yields DefaultRole; a role field in the request is ignored.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	SchoolID string `json:"schoolId"`
}

// CreateMemberInput payload for user.createMember, called by an admin.
type CreateMemberInput struct {
	Caller   *auth.Claims `json:"__shortToken"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     string       `json:"role"`
	SchoolID string       `json:"schoolId"`
}

// LoginInput payload for user.login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput carries the verified short token of user.getProfile.
type ProfileInput struct {
	ShortToken *auth.Claims `json:"__shortToken"`
}

// UserView is the public projection of a user.
type UserView struct {
	ID       string `json:"id"`
	UserKey  string `json:"userKey"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	SchoolID string `json:"schoolId"`
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User      UserView `json:"user"`
	LongToken string   `json:"longToken"`
}

// SessionView describes the short token a profile was fetched with.
type SessionView struct {
	SessionID string    `json:"sessionId"`
	DeviceID  string    `json:"deviceId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResult is returned by user.getProfile.
type ProfileResult struct {
	User    UserView    `json:"user"`
	Session SessionView `json:"session"`
}

// UserService coordinates registration and login flows. It is the only
// place long tokens are minted.
type UserService struct {
	users      repository.UserRepository
	issuer     *auth.TokenIssuer
	events     events.Dispatcher
	bcryptCost int
	newUserKey func() string
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, issuer *auth.TokenIssuer, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      users,
		issuer:     issuer,
		events:     dispatcher,
		bcryptCost: cfg.BcryptCost,
		newUserKey: uuid.NewString,
		logger:     logger,
	}
}

// CreateUser registers a student of a school and returns a long token for it.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*AuthResult, error) {
	schoolID := strings.TrimSpace(in.SchoolID)
	if schoolID == "" {
		return nil, apperrors.NewValidationError("schoolId required", nil)
	}

	user, err := s.createUser(ctx, in.Name, in.Email, in.Password, domain.DefaultRole, schoolID)
	if err != nil {
		return nil, err
	}
	return s.issueLongToken(ctx, user, "register")
}

// CreateMember lets an authenticated admin add a user with an explicit role.
// School admins are confined to their own school.
func (s *UserService) CreateMember(ctx context.Context, in CreateMemberInput) (*UserView, error) {
	caller := in.Caller
	if caller == nil {
		return nil, apperrors.NewUnauthorized("short token required")
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	callerRole := domain.Role(caller.Role)
	if !callerRole.CanGrant(role) {
		return nil, apperrors.NewForbidden("role cannot be granted by caller")
	}

	schoolID := strings.TrimSpace(in.SchoolID)
	if callerRole != domain.RoleSuperAdmin {
		if schoolID == "" {
			schoolID = caller.SchoolID
		}
		if schoolID != caller.SchoolID {
			return nil, apperrors.NewForbidden("school outside caller scope")
		}
	}
	if schoolID == "" && role != domain.RoleSuperAdmin {
		return nil, apperrors.NewValidationError("schoolId required", nil)
	}

	user, err := s.createUser(ctx, in.Name, in.Email, in.Password, role, schoolID)
	if err != nil {
		return nil, err
	}
	view := toUserView(user)
	return &view, nil
}

func (s *UserService) createUser(ctx context.Context, name, email, password string, role domain.Role, schoolID string) (*domain.User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		UserKey:      s.newUserKey(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		SchoolID:     schoolID,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login authenticates a user by email and password.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account suspended")
	}

	return s.issueLongToken(ctx, user, "login")
}

// GetProfile returns the stored user behind a verified short token.
func (s *UserService) GetProfile(ctx context.Context, in ProfileInput) (*ProfileResult, error) {
	claims := in.ShortToken
	if claims == nil {
		return nil, apperrors.NewUnauthorized("short token required")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if user.UserKey != claims.UserKey {
		return nil, apperrors.NewUnauthorized("token does not match user")
	}

	session := SessionView{SessionID: claims.SessionID, DeviceID: claims.DeviceID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return &ProfileResult{User: toUserView(user), Session: session}, nil
}

func (s *UserService) issueLongToken(ctx context.Context, user *domain.User, reason string) (*AuthResult, error) {
	token, err := s.issuer.IssueLongToken(auth.Identity{
		UserID:   user.ID,
		UserKey:  user.UserKey,
		Role:     string(user.Role),
		SchoolID: user.SchoolID,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.events, s.logger, events.Event{
		Type:     events.EventLongTokenIssued,
		UserID:   user.ID,
		SchoolID: user.SchoolID,
		Payload:  events.LongTokenIssuedPayload{Reason: reason},
	})
	return &AuthResult{User: toUserView(user), LongToken: token}, nil
}

func toUserView(u *domain.User) UserView {
	return UserView{
		ID:       u.ID,
		UserKey:  u.UserKey,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		SchoolID: u.SchoolID,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
