package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"village/internal/auth"
	"village/internal/domain"
	"village/internal/repository/sqlite"
)

type fixture struct {
	repos  *sqlite.Repositories
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	logger *logrus.Logger
	users  UserService
	auth   AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "village.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := sqlite.NewRepositories(db)
	require.NoError(t, repos.Init(context.Background()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenIssuer("service-test-secret", time.Hour)
	require.NoError(t, err)

	return &fixture{
		repos:  repos,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		users:  NewUserService(repos.Users, hasher, logger),
		auth:   NewAuthService(repos.Users, hasher, tokens, logger),
	}
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), CreateUserInput{
		Name:     "User " + email,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) amenity(t *testing.T, name string) *domain.Amenity {
	t.Helper()
	a := &domain.Amenity{Name: name}
	_, err := f.repos.Amenities.Create(context.Background(), a)
	require.NoError(t, err)
	return a
}
