package usecase

import (
	"context"
	"errors"

	sitesdomain "site-analytics-service/internal/sites/core/domain"
	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/ports"
)

var (
	// ErrInvalidSiteID rejects malformed site tokens before any lookup.
	ErrInvalidSiteID = errors.New("invalid site identifier")

	// ErrNotFoundOrForbidden covers both "no such site" and "not yours".
	// Collapsing the two denies existence probing via error shape.
	ErrNotFoundOrForbidden = errors.New("site not found")
)

// ScopeGate resolves a principal plus an optional site filter into an
// AuthorizedScope. Every operation that touches events or overrides goes
// through it first; it performs reads only.
type ScopeGate struct {
	sites ports.SiteAccessPort
}

func NewScopeGate(sites ports.SiteAccessPort) *ScopeGate {
	return &ScopeGate{sites: sites}
}

// Resolve returns the authorized scope for the request. An empty siteFilter
// scopes to all sites the principal owns (possibly none). A non-empty filter
// must name a site that exists and is owned by the principal; otherwise the
// uniform ErrNotFoundOrForbidden is returned.
func (g *ScopeGate) Resolve(ctx context.Context, principalID int64, siteFilter string) (domain.AuthorizedScope, error) {
	if siteFilter == "" {
		ids, err := g.sites.OwnedSiteIDs(ctx, principalID)
		if err != nil {
			return domain.AuthorizedScope{}, err
		}
		return domain.AuthorizedScope{SiteIDs: ids, AllOwned: true}, nil
	}

	if !sitesdomain.ValidSiteID(siteFilter) {
		return domain.AuthorizedScope{}, ErrInvalidSiteID
	}

	owned, err := g.sites.OwnedSite(ctx, principalID, siteFilter)
	if err != nil {
		return domain.AuthorizedScope{}, err
	}
	if !owned {
		return domain.AuthorizedScope{}, ErrNotFoundOrForbidden
	}

	return domain.AuthorizedScope{SiteIDs: []string{siteFilter}}, nil
}
