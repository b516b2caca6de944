package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/domain"
	"github.com/spec-kit/school-auth-service/internal/events"
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture(t)

	res := f.register(t, "  Ada@School.test ")
	assert.Equal(t, "ada@school.test", res.User.Email)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEmpty(t, res.User.UserKey)

	claims, ok := f.tokens.Verifier.VerifyLongToken(res.LongToken)
	require.True(t, ok)
	assert.Equal(t, auth.Identity{UserID: res.User.ID, UserKey: res.User.UserKey, Role: string(domain.DefaultRole), SchoolID: "s1"}, claims.Identity())
	assert.Equal(t, []events.EventType{events.EventLongTokenIssued}, f.events.types())

	stored, err := f.users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw-123456", stored.PasswordHash)
}

func TestUserService_CreateUser_Errors(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@school.test")

	_, err := f.userSvc.CreateUser(context.Background(), CreateUserInput{Name: "Ada", Email: "ada@school.test", Password: "x", SchoolID: "s1"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.ToDomainError(err).Code)

	_, err = f.userSvc.CreateUser(context.Background(), CreateUserInput{Email: "b@school.test"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.ToDomainError(err).Code)
}

func TestUserService_CreateUser_RequiresSchool(t *testing.T) {
	f := newFixture(t)

	_, err := f.userSvc.CreateUser(context.Background(), CreateUserInput{Name: "Bo", Email: "bo@school.test", Password: "pw", SchoolID: "  "})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.ToDomainError(err).Code)
}

func TestUserService_CreateMember(t *testing.T) {
	tests := []struct {
		name       string
		callerRole domain.Role
		in         CreateMemberInput
		code       string
		wantRole   domain.Role
		wantSchool string
	}{
		{
			name:       "superadmin grants school admin in any school",
			callerRole: domain.RoleSuperAdmin,
			in:         CreateMemberInput{Role: "schoolAdmin", SchoolID: "s2"},
			wantRole:   domain.RoleSchoolAdmin,
			wantSchool: "s2",
		},
		{
			name:       "school admin adds teacher to own school",
			callerRole: domain.RoleSchoolAdmin,
			in:         CreateMemberInput{Role: "teacher"},
			wantRole:   domain.RoleTeacher,
			wantSchool: "s1",
		},
		{
			name:       "school admin defaults to student",
			callerRole: domain.RoleSchoolAdmin,
			in:         CreateMemberInput{SchoolID: "s1"},
			wantRole:   domain.RoleStudent,
			wantSchool: "s1",
		},
		{
			name:       "school admin cannot leave own school",
			callerRole: domain.RoleSchoolAdmin,
			in:         CreateMemberInput{Role: "teacher", SchoolID: "s2"},
			code:       apperrors.CodeForbidden,
		},
		{
			name:       "school admin cannot grant superadmin",
			callerRole: domain.RoleSchoolAdmin,
			in:         CreateMemberInput{Role: "superadmin"},
			code:       apperrors.CodeForbidden,
		},
		{
			name:       "school admin cannot grant school admin",
			callerRole: domain.RoleSchoolAdmin,
			in:         CreateMemberInput{Role: "schoolAdmin"},
			code:       apperrors.CodeForbidden,
		},
		{
			name:       "teacher cannot add members",
			callerRole: domain.RoleTeacher,
			in:         CreateMemberInput{Role: "student"},
			code:       apperrors.CodeForbidden,
		},
		{
			name:       "unknown role",
			callerRole: domain.RoleSuperAdmin,
			in:         CreateMemberInput{Role: "root", SchoolID: "s1"},
			code:       apperrors.CodeValidation,
		},
		{
			name:       "superadmin must name a school for school roles",
			callerRole: domain.RoleSuperAdmin,
			in:         CreateMemberInput{Role: "teacher"},
			code:       apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := tt.in
			in.Caller = f.adminClaims(t, tt.callerRole, "s1")
			in.Name, in.Email, in.Password = "Cy", "cy@school.test", "pw-123456"

			view, err := f.userSvc.CreateMember(context.Background(), in)
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, apperrors.ToDomainError(err).Code)
				_, lookupErr := f.users.GetByEmail(context.Background(), "cy@school.test")
				assert.Error(t, lookupErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantRole), view.Role)
			assert.Equal(t, tt.wantSchool, view.SchoolID)

			res, err := f.userSvc.Login(context.Background(), LoginInput{Email: "cy@school.test", Password: "pw-123456"})
			require.NoError(t, err)
			claims, ok := f.tokens.Verifier.VerifyLongToken(res.LongToken)
			require.True(t, ok)
			assert.Equal(t, string(tt.wantRole), claims.Role)
			assert.Equal(t, tt.wantSchool, claims.SchoolID)
		})
	}

	f := newFixture(t)
	_, err := f.userSvc.CreateMember(context.Background(), CreateMemberInput{Role: "teacher"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)
}

func TestUserService_Login(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "ada@school.test")

	res, err := f.userSvc.Login(context.Background(), LoginInput{Email: "ADA@school.test", Password: "pw-123456"})
	require.NoError(t, err)
	assert.Equal(t, registered.User, res.User)

	_, ok := f.tokens.Verifier.VerifyLongToken(res.LongToken)
	assert.True(t, ok)
}

func TestUserService_Login_Errors(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "ada@school.test")
	ctx := context.Background()

	tests := []struct {
		name string
		in   LoginInput
		code string
	}{
		{name: "missing fields", in: LoginInput{Email: "ada@school.test"}, code: apperrors.CodeValidation},
		{name: "unknown email", in: LoginInput{Email: "nobody@school.test", Password: "pw"}, code: apperrors.CodeUnauthorized},
		{name: "wrong password", in: LoginInput{Email: "ada@school.test", Password: "nope"}, code: apperrors.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.userSvc.Login(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.ToDomainError(err).Code)
		})
	}

	user, err := f.users.GetByID(ctx, registered.User.ID)
	require.NoError(t, err)
	user.Status = domain.UserStatusSuspended
	require.NoError(t, f.users.Update(ctx, user))

	_, err = f.userSvc.Login(ctx, LoginInput{Email: "ada@school.test", Password: "pw-123456"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.ToDomainError(err).Code)
}

func TestUserService_GetProfile(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t, "ada@school.test")
	ctx := context.Background()

	longClaims, ok := f.tokens.Verifier.VerifyLongToken(registered.LongToken)
	require.True(t, ok)
	short, err := f.tokens.Issuer.CreateShortToken(longClaims, "device-abc")
	require.NoError(t, err)
	shortClaims, ok := f.tokens.Verifier.VerifyShortToken(short.ShortToken)
	require.True(t, ok)

	profile, err := f.userSvc.GetProfile(ctx, ProfileInput{ShortToken: shortClaims})
	require.NoError(t, err)
	assert.Equal(t, registered.User, profile.User)
	assert.Equal(t, shortClaims.SessionID, profile.Session.SessionID)
	assert.Equal(t, auth.Fingerprint("device-abc"), profile.Session.DeviceID)
	assert.False(t, profile.Session.ExpiresAt.IsZero())

	stale := *shortClaims
	stale.UserKey = "rotated"
	_, err = f.userSvc.GetProfile(ctx, ProfileInput{ShortToken: &stale})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)

	missing := *shortClaims
	missing.UserID = "missing"
	_, err = f.userSvc.GetProfile(ctx, ProfileInput{ShortToken: &missing})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(err).Code)

	_, err = f.userSvc.GetProfile(ctx, ProfileInput{})
	require.Error(t, err)
}
