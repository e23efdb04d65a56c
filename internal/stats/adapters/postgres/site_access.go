package postgres

import (
	"context"

	"site-analytics-service/internal/stats/core/ports"
)

// SiteAccessRepository answers the scoping gate's ownership queries against
// the sites table.
type SiteAccessRepository struct {
	db DB
}

func NewSiteAccessRepository(db DB) *SiteAccessRepository {
	return &SiteAccessRepository{db: db}
}

var _ ports.SiteAccessPort = (*SiteAccessRepository)(nil)

const ownedSiteIDsSQL = `
SELECT site_id
FROM sites
WHERE user_id = $1
ORDER BY created_at, id;
`

func (r *SiteAccessRepository) OwnedSiteIDs(ctx context.Context, principalID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, ownedSiteIDsSQL, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Existence and ownership combined into one predicate; a missing site and a
// foreign site produce the same false.
const ownedSiteSQL = `
SELECT EXISTS (
    SELECT 1 FROM sites WHERE site_id = $1 AND user_id = $2
);
`

func (r *SiteAccessRepository) OwnedSite(ctx context.Context, principalID int64, siteID string) (bool, error) {
	rows, err := r.db.QueryContext(ctx, ownedSiteSQL, siteID, principalID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	var owned bool
	if err := rows.Scan(&owned); err != nil {
		return false, err
	}
	return owned, rows.Err()
}
