package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village/internal/domain"
	"village/internal/service"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Run("Should register a resident and log in", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"name": "Ana", "email": "Ana@Example.com", "password": testPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created UserResponse
		decode(t, w, &created)
		assert.Equal(t, domain.RoleResident, created.Role)
		assert.Equal(t, "ana@example.com", created.Email)
		assert.NotContains(t, w.Body.String(), "password")

		w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var login LoginResponse
		decode(t, w, &login)
		assert.NotEmpty(t, login.AccessToken)
		assert.Equal(t, "bearer", login.TokenType)
		assert.Equal(t, created.ID, login.User.ID)

		w = s.do(t, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me UserResponse
		decode(t, w, &me)
		assert.Equal(t, "Ana", me.Name)
	})

	t.Run("Should reject a duplicate email and leave the user count unchanged", func(t *testing.T) {
		s := newTestServer(t)
		body := gin.H{"name": "Ana", "email": "ana@example.com", "password": testPassword}
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/register", "", body).Code)

		body["email"] = "ANA@example.com"
		w := s.do(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "already exists")

		n, err := s.repos.Users.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Should reject malformed registrations", func(t *testing.T) {
		s := newTestServer(t)
		cases := []gin.H{
			{"name": "Ana", "email": "not-an-email", "password": testPassword},
			{"name": "Ana", "email": "ana@example.com", "password": "short"},
			{"email": "ana@example.com", "password": testPassword},
		}
		for _, body := range cases {
			w := s.do(t, http.MethodPost, "/api/auth/register", "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("Should answer 400 for passwords bcrypt cannot hash", func(t *testing.T) {
		s := newTestServer(t)
		long := strings.Repeat("p", 80)

		w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
			"name": "Ana", "email": "ana@example.com", "password": long,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Contains(t, errorMessage(t, w), "at most 72 bytes")

		n, err := s.repos.Users.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
		w = s.do(t, http.MethodPost, "/api/users", admin, gin.H{
			"name": "Bob", "email": "bob@example.com", "password": long,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		w = s.do(t, http.MethodPut, "/api/auth/me", admin, gin.H{"password": long})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": testPassword})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should answer 401 for a wrong password and an unknown email alike", func(t *testing.T) {
		s := newTestServer(t)
		s.account(t, "ana@example.com", domain.RoleResident)

		wrong := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "wrong-password"})
		unknown := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": testPassword})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, errorMessage(t, wrong), errorMessage(t, unknown))
	})
}

func TestAccessGate(t *testing.T) {
	t.Run("Should require a bearer token", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodGet, "/api/units", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

		w = s.do(t, http.MethodGet, "/api/units", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should reject a malformed authorization header", func(t *testing.T) {
		s := newTestServer(t)
		_, token := s.account(t, "ana@example.com", domain.RoleResident)
		w := s.doRaw(t, http.MethodGet, "/api/auth/me", "Token "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = s.doRaw(t, http.MethodGet, "/api/auth/me", "bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should forbid residents on admin routes", func(t *testing.T) {
		s := newTestServer(t)
		_, token := s.account(t, "ana@example.com", domain.RoleResident)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", token, nil).Code)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/amenities", token, gin.H{"name": "Pool"}).Code)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/units/1", token, nil).Code)
	})

	t.Run("Should reject a still-valid token of a deactivated user", func(t *testing.T) {
		s := newTestServer(t)
		_, adminToken := s.account(t, "admin@example.com", domain.RoleAdmin)
		ana, token := s.account(t, "ana@example.com", domain.RoleResident)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/auth/me", token, nil).Code)

		w := s.do(t, http.MethodPut, "/api/users/"+itoa(ana.ID), adminToken, gin.H{"is_active": false})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", token, nil).Code)
	})

	t.Run("Should take the role from the store rather than the token", func(t *testing.T) {
		s := newTestServer(t)
		admin, token := s.account(t, "admin@example.com", domain.RoleAdmin)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/users", token, nil).Code)

		_, err := s.users.Update(context.Background(), admin.ID, service.UpdateUserInput{Role: domain.Some("resident")})
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", token, nil).Code)
	})

	t.Run("Should reject the token of a deleted user", func(t *testing.T) {
		s := newTestServer(t)
		ana, token := s.account(t, "ana@example.com", domain.RoleResident)
		require.NoError(t, s.users.Delete(context.Background(), ana.ID))
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", token, nil).Code)
	})
}

func TestSelfUpdate(t *testing.T) {
	s := newTestServer(t)
	_, token := s.account(t, "ana@example.com", domain.RoleResident)

	w := s.do(t, http.MethodPut, "/api/auth/me", token, gin.H{"name": "Ana Maria", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me UserResponse
	decode(t, w, &me)
	assert.Equal(t, "Ana Maria", me.Name)
	assert.Equal(t, domain.RoleResident, me.Role)
}
