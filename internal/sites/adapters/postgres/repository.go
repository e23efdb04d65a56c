package postgres

import (
	"context"
	"database/sql"
	"time"

	"site-analytics-service/internal/sites/core/domain"
	"site-analytics-service/internal/sites/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type SiteRepository struct {
	db DB
}

func NewSiteRepository(db DB) *SiteRepository {
	return &SiteRepository{db: db}
}

var _ ports.SiteRepositoryPort = (*SiteRepository)(nil)

const insertSiteSQL = `
INSERT INTO sites (site_id, user_id, name, domain)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at;
`

func (r *SiteRepository) InsertSite(ctx context.Context, s *domain.Site) error {
	rows, err := r.db.QueryContext(ctx, insertSiteSQL, s.SiteID, s.OwnerID, s.Name, s.Domain)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}

	var createdAt time.Time
	if err := rows.Scan(&s.ID, &createdAt); err != nil {
		return err
	}
	s.CreatedAt = createdAt.UTC()

	return rows.Err()
}

const listSitesByOwnerSQL = `
SELECT id, site_id, user_id, name, domain, created_at
FROM sites
WHERE user_id = $1
ORDER BY created_at, id;
`

func (r *SiteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, listSitesByOwnerSQL, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		var s domain.Site
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.SiteID, &s.OwnerID, &s.Name, &s.Domain, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt.UTC()
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// Existence and ownership are one predicate: a site owned by someone else and
// a site that does not exist both delete zero rows.
const deleteOwnedSiteSQL = `
DELETE FROM sites
WHERE site_id = $1 AND user_id = $2;
`

func (r *SiteRepository) DeleteOwned(ctx context.Context, ownerID int64, siteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteOwnedSiteSQL, siteID, ownerID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
