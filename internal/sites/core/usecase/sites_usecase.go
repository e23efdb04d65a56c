package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	"site-analytics-service/internal/sites/core/domain"
	"site-analytics-service/internal/sites/core/ports"
)

var (
	ErrInvalidSiteID = errors.New("invalid site identifier")

	// ErrNotFoundOrForbidden covers both a nonexistent site and a site owned
	// by someone else; callers cannot tell the two apart.
	ErrNotFoundOrForbidden = errors.New("site not found")
)

type SitesUseCase struct {
	repo ports.SiteRepositoryPort
}

func NewSitesUseCase(repo ports.SiteRepositoryPort) *SitesUseCase {
	return &SitesUseCase{repo: repo}
}

// Register creates a site with a fresh opaque token for the owner.
func (uc *SitesUseCase) Register(ctx context.Context, ownerID int64, name, siteDomain string) (*domain.Site, error) {
	s := &domain.Site{
		SiteID:  newSiteID(),
		OwnerID: ownerID,
		Name:    strings.TrimSpace(name),
		Domain:  strings.TrimSpace(siteDomain),
	}

	if err := uc.repo.InsertSite(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the sites owned by the principal; an empty list is not an
// error.
func (uc *SitesUseCase) List(ctx context.Context, ownerID int64) ([]domain.Site, error) {
	return uc.repo.ListByOwner(ctx, ownerID)
}

// Delete removes an owned site and, via cascade, all of its events, label
// overrides, and mute rules. Existence and ownership fail identically.
func (uc *SitesUseCase) Delete(ctx context.Context, ownerID int64, siteID string) error {
	if !domain.ValidSiteID(siteID) {
		return ErrInvalidSiteID
	}

	deleted, err := uc.repo.DeleteOwned(ctx, ownerID, siteID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFoundOrForbidden
	}
	return nil
}

func newSiteID() string {
	u := uuid.New()
	return "site_" + hex.EncodeToString(u[:4])
}
