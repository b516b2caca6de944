package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/config"
	"github.com/spec-kit/school-auth-service/internal/domain"
	"github.com/spec-kit/school-auth-service/internal/events"
	"github.com/spec-kit/school-auth-service/internal/repository"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		LongTokenSecret:  "service-long-secret",
		ShortTokenSecret: "service-short-secret",
		BcryptCost:       bcrypt.MinCost,
	}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return events.Event{}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	tokens   *auth.TokenManager
	users    repository.UserRepository
	tokenSvc *TokenService
	userSvc  *UserService
	events   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testAuthCfg()
	tm := auth.NewTokenManager(cfg, zap.NewNop())
	repo := repository.NewMemoryUserRepository()

	d := events.NewInMemoryDispatcher(zap.NewNop())
	rec := &recorder{}
	for _, et := range []events.EventType{events.EventLongTokenIssued, events.EventShortTokenIssued} {
		d.Subscribe(et, rec.handle)
	}

	return &fixture{
		tokens:   tm,
		users:    repo,
		tokenSvc: NewTokenService(tm.Issuer, d, zap.NewNop()),
		userSvc:  NewUserService(cfg, repo, tm.Issuer, d, zap.NewNop()),
		events:   rec,
	}
}

func (f *fixture) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.userSvc.CreateUser(context.Background(), CreateUserInput{
		Name:     "Ada",
		Email:    email,
		Password: "pw-123456",
		SchoolID: "s1",
	})
	require.NoError(t, err)
	return res
}

// adminClaims seeds a user with role directly in the repository and returns
// the short token claims an admin session would carry.
func (f *fixture) adminClaims(t *testing.T, role domain.Role, schoolID string) *auth.Claims {
	t.Helper()
	admin := &domain.User{
		UserKey:  "admin-key-" + string(role),
		Name:     "Admin",
		Email:    string(role) + "@school.test",
		Role:     role,
		SchoolID: schoolID,
		Status:   domain.UserStatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), admin))

	long := &auth.Claims{UserID: admin.ID, UserKey: admin.UserKey, Role: string(role), SchoolID: schoolID}
	res, err := f.tokens.Issuer.CreateShortToken(long, "admin-device")
	require.NoError(t, err)
	claims, ok := f.tokens.Verifier.VerifyShortToken(res.ShortToken)
	require.True(t, ok)
	return claims
}
