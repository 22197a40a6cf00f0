package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"village/internal/auth"
	"village/internal/domain"
	"village/internal/repository"
)

// Tokens issues and verifies access tokens.
type Tokens interface {
	Issue(subjectID int64, role domain.Role) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService authenticates credentials and resolves callers from tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Identify(ctx context.Context, token string) (*domain.User, error)
	Authorize(caller *domain.User, role domain.Role) error
}

type authService struct {
	users  repository.UserRepository
	hasher Hasher
	tokens Tokens
	logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, hasher Hasher, tokens Tokens, logger *logrus.Logger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, User: sanitizeUser(user)}, nil
}

// Identify resolves the caller behind a token. The user must still exist and be
// active; the role is taken from the store so demotions apply immediately.
func (s *authService) Identify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUnauthenticated
	}
	return sanitizeUser(user), nil
}

// Authorize requires an exact role match; there is no role hierarchy.
func (s *authService) Authorize(caller *domain.User, role domain.Role) error {
	if caller == nil {
		return domain.ErrUnauthenticated
	}
	if caller.Role != role {
		return fmt.Errorf("%w: requires %s role", domain.ErrForbidden, role)
	}
	return nil
}
