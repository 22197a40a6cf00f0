package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village/internal/domain"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should register residents and reject duplicate emails", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.users.Register(ctx, "Ana", "ana@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleResident, u.Role)
		assert.True(t, u.Active)
		assert.Empty(t, u.PasswordHash)

		_, err = f.users.Register(ctx, "Ana Two", "ana@example.com", "password456")
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		users, err := f.users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("Should validate input", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Register(ctx, "", "ana@example.com", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.users.Register(ctx, "Ana", "not-an-email", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.users.Register(ctx, "Ana", "ana@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.users.Register(ctx, "Ana", "ana@example.com", strings.Repeat("p", 73))
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.users.Create(ctx, CreateUserInput{Name: "X", Email: "x@example.com", Password: "password123", Role: "owner"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Should store hashes instead of plaintext", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com", domain.RoleResident)
		stored, err := f.repos.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "password123", stored.PasswordHash)
		assert.True(t, f.hasher.Verify("password123", stored.PasswordHash))
	})

	t.Run("Should update only supplied fields", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "ana@example.com", domain.RoleResident)
		f.user(t, "bob@example.com", domain.RoleResident)

		updated, err := f.users.Update(ctx, u.ID, UpdateUserInput{Name: domain.Some("Ana María")})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", updated.Name)
		assert.Equal(t, "ana@example.com", updated.Email)

		_, err = f.users.Update(ctx, u.ID, UpdateUserInput{Email: domain.Some("bob@example.com")})
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		_, err = f.users.Update(ctx, u.ID, UpdateUserInput{Password: domain.Some("new-password-1")})
		require.NoError(t, err)
		_, err = f.auth.Login(ctx, "ana@example.com", "new-password-1")
		assert.NoError(t, err)

		_, err = f.users.Update(ctx, 999, UpdateUserInput{Name: domain.Some("Ghost")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Should seed the bootstrap admin once", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.users.EnsureAdmin(ctx, "", "admin@example.com", "admin-password")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, first.Role)

		second, err := f.users.EnsureAdmin(ctx, "", "admin@example.com", "admin-password")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}
