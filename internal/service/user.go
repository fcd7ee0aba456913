package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/planit/internal/domain"
	"github.com/pkordes/planit/internal/ident"
	"github.com/pkordes/planit/internal/repo"
)

// RegisterInput is the data needed to create a user.
type RegisterInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=100"`
}

// UserService implements registration and email login. There are no
// passwords: knowing a registered email is enough to obtain a token.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// Register validates and persists a new user.
// Returns domain.ErrValidation for a blank name or malformed email, and
// domain.ErrConflict if the email is already registered.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := checkInput(in); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{ID: ident.NewID(), Email: in.Email, Name: in.Name})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return user, nil
}

// Login resolves a registered email to its user.
// Returns domain.ErrNotFound if no user has that email.
func (s *UserService) Login(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	return user, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}
