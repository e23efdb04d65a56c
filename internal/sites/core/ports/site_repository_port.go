package ports

import (
	"context"

	"site-analytics-service/internal/sites/core/domain"
)

type SiteRepositoryPort interface {
	// InsertSite stores s and fills its ID and CreatedAt.
	InsertSite(ctx context.Context, s *domain.Site) error

	// ListByOwner returns every site owned by the principal, oldest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Site, error)

	// DeleteOwned removes the site iff it exists and is owned by ownerID,
	// in one statement. Cascade removes its events and overrides. Returns
	// whether a row was deleted.
	DeleteOwned(ctx context.Context, ownerID int64, siteID string) (bool, error)
}
