package ports

import (
	"context"

	"site-analytics-service/internal/auth/core/domain"
)

type UserRepositoryPort interface {
	// InsertUser:
	//   created != nil, err = nil -> new account
	//   created = nil,  err = nil -> username already taken
	InsertUser(ctx context.Context, username, passwordHash string) (*domain.Principal, error)

	// FindByUsername returns nil, nil when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)

	// FindByID returns nil, nil when no such user exists.
	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
}
