package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/auth"
	"github.com/spec-kit/school-auth-service/internal/config"
	"github.com/spec-kit/school-auth-service/internal/dispatch"
	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

type whoamiInput struct {
	Claims *auth.Claims `json:"__longToken"`
	Echo   string       `json:"echo"`
}

func newRoleApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tm := auth.NewTokenManager(config.AuthConfig{LongTokenSecret: "l", ShortTokenSecret: "s"}, zap.NewNop())

	r := dispatch.NewRegistry()
	dispatch.Register(r, dispatch.Operation{
		Module:   "school",
		Function: "whoami",
		Exposed:  true,
		Requires: []string{auth.KeyLongToken},
		Roles:    []string{"schoolAdmin"},
	}, func(_ context.Context, in whoamiInput) (map[string]string, error) {
		return map[string]string{"userId": in.Claims.UserID, "echo": in.Echo}, nil
	})
	dispatch.Register(r, dispatch.Operation{Module: "school", Function: "internal"},
		func(context.Context, struct{}) (string, error) { return "hidden", nil })

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	h := NewAPIHandler(r, auth.NewInjector(tm.Verifier), nil, nil)
	app.All("/api/:moduleName/:fnName", h.Dispatch)
	return app, tm
}

func doRequest(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAPIHandler_Roles(t *testing.T) {
	app, tm := newRoleApp(t)

	admin, err := tm.Issuer.IssueLongToken(auth.Identity{UserID: "u1", UserKey: "k1", Role: "schoolAdmin", SchoolID: "s1"})
	require.NoError(t, err)
	student, err := tm.Issuer.IssueLongToken(auth.Identity{UserID: "u2", UserKey: "k2", Role: "student", SchoolID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, doRequest(t, app, "/api/school/whoami?echo=hi", admin))
	assert.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/api/school/whoami", student))
	assert.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/api/school/whoami", ""))
}

func TestAPIHandler_HiddenOperation(t *testing.T) {
	app, _ := newRoleApp(t)
	assert.Equal(t, fiber.StatusNotFound, doRequest(t, app, "/api/school/internal", ""))
}
