package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

func TestRequireRole(t *testing.T) {
	teacher := &Claims{UserID: "u1", UserKey: "k1", Role: "teacher"}

	require.NoError(t, RequireRole(teacher))
	require.NoError(t, RequireRole(teacher, "schoolAdmin", "teacher"))

	err := RequireRole(teacher, "superadmin")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)

	err = RequireRole(nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
}
