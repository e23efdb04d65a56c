package usecase

import (
	"context"
	"errors"
	"strings"

	"site-analytics-service/internal/auth/core/domain"
	"site-analytics-service/internal/auth/core/ports"
	"site-analytics-service/internal/security"
)

var (
	ErrInvalidRegistration = errors.New("username and password are required")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
)

type AuthUseCase struct {
	users  ports.UserRepositoryPort
	hasher *security.Hasher
}

func NewAuthUseCase(users ports.UserRepositoryPort, hasher *security.Hasher) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher}
}

// Register creates an account with a bcrypt-hashed password.
func (uc *AuthUseCase) Register(ctx context.Context, username, password string) (*domain.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidRegistration
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	p, err := uc.users.InsertUser(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUsernameTaken
	}
	return p, nil
}

// Login verifies the credentials and returns the principal. An unknown
// username and a wrong password produce the same error.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	p, err := uc.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(p.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// PrincipalByID resolves a verified session subject to a live account.
func (uc *AuthUseCase) PrincipalByID(ctx context.Context, id int64) (*domain.Principal, error) {
	p, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}
