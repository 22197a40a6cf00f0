package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is a flat classification of a user governing endpoint access.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// ParseRole normalizes a role name and rejects anything outside the two known roles.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleResident:
		return RoleResident, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleResident
}

// User represents a resident or administrator of the condominium.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries the fields of a partial user update.
// PasswordHash is filled by the service after hashing the plaintext.
type UserPatch struct {
	Name         Optional[string]
	Email        Optional[string]
	PasswordHash Optional[string]
	Role         Optional[Role]
	Active       Optional[bool]
}

// Empty reports whether no field is present.
func (p UserPatch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.PasswordHash.Set && !p.Role.Set && !p.Active.Set
}
