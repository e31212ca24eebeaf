package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewear/internal/domain"
)

func TestSignupAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.accounts.Signup(ctx, " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, 0, res.User.Points)
	assert.False(t, res.User.Admin)

	got, err := e.accounts.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, got.User.ID)

	_, err = e.accounts.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = e.accounts.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.accounts.Signup(ctx, "  ", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = e.accounts.Signup(ctx, "bob@example.com", "123")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = e.accounts.Signup(ctx, "bob@example.com", "secret1")
	require.NoError(t, err)
	_, err = e.accounts.Signup(ctx, "bob@example.com", "secret2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPromote(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "carol@example.com", 0)

	require.NoError(t, e.accounts.Promote(ctx, "carol@example.com", true))
	got, err := e.accounts.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Admin)
	assert.Equal(t, domain.RoleAdmin, got.Role())

	assert.ErrorIs(t, e.accounts.Promote(ctx, "ghost@example.com", true), domain.ErrNotFound)
}
