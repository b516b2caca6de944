package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-auth-service/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{UserKey: "k1", Name: "Ada", Email: "ada@school.test", Role: domain.RoleTeacher, SchoolID: "s1"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	err := repo.Create(ctx, &domain.User{Email: "ada@school.test"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "ada@school.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got.Email = "ada.l@school.test"
	require.NoError(t, repo.Update(ctx, got))

	_, err = repo.GetByEmail(ctx, "ada@school.test")
	require.ErrorIs(t, err, pgx.ErrNoRows)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada.l@school.test", byID.Email)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "missing"}), pgx.ErrNoRows)
}
