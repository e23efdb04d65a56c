package ports

import (
	"context"

	"site-analytics-service/internal/stats/core/domain"
)

// SiteAccessPort answers ownership questions for the scoping gate.
type SiteAccessPort interface {
	// OwnedSiteIDs returns every site token owned by the principal.
	OwnedSiteIDs(ctx context.Context, principalID int64) ([]string, error)

	// OwnedSite reports whether a site with this token exists AND is owned by
	// the principal, evaluated as one predicate in one query so the two
	// failure causes cannot be told apart (not even by timing).
	OwnedSite(ctx context.Context, principalID int64, siteID string) (bool, error)
}

// EventReaderPort reads and bulk-deletes events within an authorized site set.
type EventReaderPort interface {
	// ListBySites returns all events for the given sites, newest first.
	ListBySites(ctx context.Context, siteIDs []string) ([]domain.EventRow, error)

	// DeleteBySites removes all events for the given sites in one statement
	// and returns the number deleted.
	DeleteBySites(ctx context.Context, siteIDs []string) (int64, error)
}

// OverrideRepositoryPort stores label overrides and mute rules. All writes are
// single atomic statements.
type OverrideRepositoryPort interface {
	ListLabels(ctx context.Context, siteIDs []string) ([]domain.LabelOverride, error)
	ListMutes(ctx context.Context, siteIDs []string) ([]domain.MuteRule, error)

	// UpsertLabel creates or replaces the display text for a key. Idempotent.
	UpsertLabel(ctx context.Context, siteID, element, originalText, displayText string) error

	// DeleteMute removes a mute rule; reports whether one existed.
	DeleteMute(ctx context.Context, siteID, element, originalText string) (bool, error)

	// InsertMute adds a mute rule; reports false when it already existed.
	InsertMute(ctx context.Context, siteID, element, originalText string) (bool, error)

	// DeleteStale removes override rows whose site no longer exists. With
	// cascade-delete enforced this is a safety net that deletes nothing.
	DeleteStale(ctx context.Context) (labels int64, mutes int64, err error)
}
