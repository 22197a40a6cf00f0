package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"village/internal/domain"
)

var validate = validator.New()

// resolveOwner picks the user a new record belongs to. Residents may only act for
// themselves; admins may name any user.
func resolveOwner(caller *domain.User, requested *int64) (int64, error) {
	if caller == nil {
		return 0, domain.ErrUnauthenticated
	}
	if requested == nil || *requested == caller.ID {
		return caller.ID, nil
	}
	if caller.Role != domain.RoleAdmin {
		return 0, fmt.Errorf("%w: residents may only act on their own behalf", domain.ErrForbidden)
	}
	if *requested <= 0 {
		return 0, fmt.Errorf("%w: invalid user id", domain.ErrValidation)
	}
	return *requested, nil
}

// canManage reports whether caller owns the record or is an admin.
func canManage(caller *domain.User, ownerID int64) bool {
	return caller != nil && (caller.Role == domain.RoleAdmin || caller.ID == ownerID)
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return value, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return email, nil
}

const (
	minPasswordLength = 8
	// bcrypt only accepts up to 72 bytes of input
	maxPasswordBytes = 72
)

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	return nil
}
