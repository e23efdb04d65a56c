package usecase

import (
	"context"
	"errors"
	"strings"

	sitesdomain "site-analytics-service/internal/sites/core/domain"
	"site-analytics-service/internal/stats/core/ports"
)

var ErrInvalidOverride = errors.New("element and original text are required")

// OverridesUseCase handles override writes. Every write is gated on ownership
// of the named site and lands as a single atomic statement.
type OverridesUseCase struct {
	gate *ScopeGate
	repo ports.OverrideRepositoryPort
}

func NewOverridesUseCase(gate *ScopeGate, repo ports.OverrideRepositoryPort) *OverridesUseCase {
	return &OverridesUseCase{gate: gate, repo: repo}
}

// SetLabel upserts the display text for an owned site's (element, text) pair.
// Re-posting the same value is a no-op success.
func (uc *OverridesUseCase) SetLabel(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error {
	// Writes always name a concrete site. An empty siteID must not fall
	// through to the gate's all-owned scope.
	if !sitesdomain.ValidSiteID(siteID) {
		return ErrInvalidSiteID
	}
	if _, err := uc.gate.Resolve(ctx, principalID, siteID); err != nil {
		return err
	}

	element = strings.TrimSpace(element)
	originalText = strings.TrimSpace(originalText)
	displayText = strings.TrimSpace(displayText)
	if element == "" || originalText == "" || displayText == "" {
		return ErrInvalidOverride
	}

	return uc.repo.UpsertLabel(ctx, siteID, element, originalText, displayText)
}

// ToggleMute flips the mute rule for an owned site's (element, text) pair and
// reports the resulting state. The operation is its own inverse. Concurrent
// toggles on the same key resolve to exactly one of the two outcomes; both
// statements are conditional, so no corruption is possible.
func (uc *OverridesUseCase) ToggleMute(ctx context.Context, principalID int64, siteID, element, originalText string) (muted bool, err error) {
	if !sitesdomain.ValidSiteID(siteID) {
		return false, ErrInvalidSiteID
	}
	if _, err := uc.gate.Resolve(ctx, principalID, siteID); err != nil {
		return false, err
	}

	element = strings.TrimSpace(element)
	originalText = strings.TrimSpace(originalText)
	if element == "" || originalText == "" {
		return false, ErrInvalidOverride
	}

	deleted, err := uc.repo.DeleteMute(ctx, siteID, element, originalText)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, nil
	}

	// Nothing to delete: create the rule. A concurrent insert makes ours a
	// no-op; the key is muted either way.
	if _, err := uc.repo.InsertMute(ctx, siteID, element, originalText); err != nil {
		return false, err
	}
	return true, nil
}

// CleanupStale removes override rows whose site no longer resolves. With
// cascade-delete enforced by the schema it deletes nothing and exists as a
// safety net for data written before the constraint.
func (uc *OverridesUseCase) CleanupStale(ctx context.Context) (labels int64, mutes int64, err error) {
	return uc.repo.DeleteStale(ctx)
}
