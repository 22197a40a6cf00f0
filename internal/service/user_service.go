package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
)

// Hasher is the one-way password function used for credentials.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type UpdateUserInput struct {
	Name     domain.Optional[string]
	Email    domain.Optional[string]
	Password domain.Optional[string]
	Role     domain.Optional[string]
	Active   domain.Optional[bool]
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users  repository.UserRepository
	hasher Hasher
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, hasher Hasher, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a resident account. Admin accounts are only created by admins.
func (s *userService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.Create(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleResident,
	})
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleResident
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return sanitizeUser(user), nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is already taken.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return sanitizeUser(existing), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = "Administrator"
	}
	return s.Create(ctx, CreateUserInput{Name: name, Email: email, Password: password, Role: domain.RoleAdmin})
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error) {
	var patch domain.UserPatch

	if in.Name.Set {
		if in.Name.Null {
			return nil, fmt.Errorf("%w: name cannot be null", domain.ErrValidation)
		}
		name, err := requireText("name", in.Name.Value)
		if err != nil {
			return nil, err
		}
		patch.Name = domain.Some(name)
	}
	if in.Email.Set {
		email, err := normalizeEmail(in.Email.Value)
		if err != nil {
			return nil, err
		}
		patch.Email = domain.Some(email)
	}
	// an empty password leaves the current one in place
	if in.Password.Set && !in.Password.Null && in.Password.Value != "" {
		if err := checkPassword(in.Password.Value); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(in.Password.Value)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = domain.Some(hash)
	}
	if in.Role.Set {
		role, err := domain.ParseRole(in.Role.Value)
		if err != nil {
			return nil, err
		}
		patch.Role = domain.Some(role)
	}
	if in.Active.Set {
		if in.Active.Null {
			return nil, fmt.Errorf("%w: is_active cannot be null", domain.ErrValidation)
		}
		patch.Active = domain.Some(in.Active.Value)
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
