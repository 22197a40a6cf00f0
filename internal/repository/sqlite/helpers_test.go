package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"village/internal/domain"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "village.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := NewRepositories(db)
	require.NoError(t, repos.Init(context.Background()))
	return repos
}

func seedUser(t *testing.T, repos *Repositories, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         "User " + email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Active:       true,
	}
	_, err := repos.Users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func seedAmenity(t *testing.T, repos *Repositories, name string) *domain.Amenity {
	t.Helper()
	amenity := &domain.Amenity{Name: name}
	_, err := repos.Amenities.Create(context.Background(), amenity)
	require.NoError(t, err)
	return amenity
}

func seedUnit(t *testing.T, repos *Repositories, code string, owner *int64) *domain.Unit {
	t.Helper()
	unit := &domain.Unit{Code: code, OwnerID: owner, AreaM2: 72.5}
	_, err := repos.Units.Create(context.Background(), unit)
	require.NoError(t, err)
	return unit
}
