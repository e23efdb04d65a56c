package postgres

import (
	"context"
	"time"

	"site-analytics-service/internal/auth/core/domain"
	"site-analytics-service/internal/auth/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepositoryPort = (*UserRepository)(nil)

const insertUserSQL = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
ON CONFLICT (username) DO NOTHING
RETURNING id, created_at;
`

// InsertUser returns nil, nil when the username is already taken
// (ON CONFLICT DO NOTHING yields no row).
func (r *UserRepository) InsertUser(ctx context.Context, username, passwordHash string) (*domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx, insertUserSQL, username, passwordHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	p := &domain.Principal{Username: username, PasswordHash: passwordHash}
	var createdAt time.Time
	if err := rows.Scan(&p.ID, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.UTC()

	return p, rows.Err()
}

const findUserByUsernameSQL = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = $1;
`

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return r.findOne(ctx, findUserByUsernameSQL, username)
}

const findUserByIDSQL = `
SELECT id, username, password_hash, created_at
FROM users
WHERE id = $1;
`

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return r.findOne(ctx, findUserByIDSQL, id)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var p domain.Principal
	var createdAt time.Time
	if err := rows.Scan(&p.ID, &p.Username, &p.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.UTC()

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}
