// Package service provides domain services for TaskHub.
//
// AccountService handles registration and credential verification.
package service

import (
	"context"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// UserRepository defines the storage interface for account operations.
type UserRepository interface {
	// CreateUser persists a new user and assigns its ID.
	// Returns domain.ErrUsernameTaken when the username already exists
	// (case-sensitive exact match).
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByUsername retrieves a user by username.
	// Returns domain.ErrUserNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AccountService handles user registration and login verification.
type AccountService struct {
	repo UserRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

// RegisterRequest contains parameters for account registration.
type RegisterRequest struct {
	Username string
	Password string
}

// Register creates a new account with a salted one-way password hash.
// The plaintext password is never persisted.
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	user, err := domain.NewUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyRequest contains parameters for credential verification.
type VerifyRequest struct {
	Username string
	Password string
}

// Verify checks a username/password pair and returns the account on success.
//
// Unknown usernames and wrong passwords fail with the same
// domain.ErrInvalidCredentials so callers cannot probe for registered names.
func (s *AccountService) Verify(ctx context.Context, req *VerifyRequest) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Lookup resolves a username to its account.
// Used by the authorization middleware to resolve a verified token subject.
func (s *AccountService) Lookup(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}
