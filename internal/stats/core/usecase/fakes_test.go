package usecase_test

import (
	"context"
	"strings"
	"time"

	"site-analytics-service/internal/stats/core/domain"
)

// fakeSiteAccess fakes SiteAccessPort over an in-memory ownership map.
type fakeSiteAccess struct {
	owned  map[int64][]string
	called bool
}

func (f *fakeSiteAccess) OwnedSiteIDs(ctx context.Context, principalID int64) ([]string, error) {
	f.called = true
	return f.owned[principalID], nil
}

func (f *fakeSiteAccess) OwnedSite(ctx context.Context, principalID int64, siteID string) (bool, error) {
	f.called = true
	for _, id := range f.owned[principalID] {
		if id == siteID {
			return true, nil
		}
	}
	return false, nil
}

// fakeEventReader fakes EventReaderPort over an in-memory event slice.
type fakeEventReader struct {
	events       []domain.EventRow
	deleteCalled bool
	deletedSites []string
	deleteCount  int64
}

func (f *fakeEventReader) ListBySites(ctx context.Context, siteIDs []string) ([]domain.EventRow, error) {
	allowed := make(map[string]struct{}, len(siteIDs))
	for _, id := range siteIDs {
		allowed[id] = struct{}{}
	}

	var out []domain.EventRow
	for _, ev := range f.events {
		if _, ok := allowed[ev.SiteID]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventReader) DeleteBySites(ctx context.Context, siteIDs []string) (int64, error) {
	f.deleteCalled = true
	f.deletedSites = siteIDs
	return f.deleteCount, nil
}

// fakeOverrideRepo fakes OverrideRepositoryPort with real toggle semantics so
// self-inverse behavior can be exercised.
type fakeOverrideRepo struct {
	labels []domain.LabelOverride
	mutes  []domain.MuteRule

	upserts []domain.LabelOverride
}

func (f *fakeOverrideRepo) ListLabels(ctx context.Context, siteIDs []string) ([]domain.LabelOverride, error) {
	var out []domain.LabelOverride
	for _, l := range f.labels {
		if contains(siteIDs, l.SiteID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeOverrideRepo) ListMutes(ctx context.Context, siteIDs []string) ([]domain.MuteRule, error) {
	var out []domain.MuteRule
	for _, m := range f.mutes {
		if contains(siteIDs, m.SiteID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeOverrideRepo) UpsertLabel(ctx context.Context, siteID, element, originalText, displayText string) error {
	f.upserts = append(f.upserts, domain.LabelOverride{
		SiteID: siteID, Element: element, OriginalText: originalText, DisplayText: displayText,
	})
	for i, l := range f.labels {
		if l.SiteID == siteID && strings.EqualFold(l.Element, element) && strings.EqualFold(l.OriginalText, originalText) {
			f.labels[i].DisplayText = displayText
			return nil
		}
	}
	f.labels = append(f.labels, domain.LabelOverride{
		SiteID: siteID, Element: element, OriginalText: originalText, DisplayText: displayText,
	})
	return nil
}

func (f *fakeOverrideRepo) DeleteMute(ctx context.Context, siteID, element, originalText string) (bool, error) {
	for i, m := range f.mutes {
		if m.SiteID == siteID && strings.EqualFold(m.Element, element) && strings.EqualFold(m.OriginalText, originalText) {
			f.mutes = append(f.mutes[:i], f.mutes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOverrideRepo) InsertMute(ctx context.Context, siteID, element, originalText string) (bool, error) {
	for _, m := range f.mutes {
		if m.SiteID == siteID && strings.EqualFold(m.Element, element) && strings.EqualFold(m.OriginalText, originalText) {
			return false, nil
		}
	}
	f.mutes = append(f.mutes, domain.MuteRule{SiteID: siteID, Element: element, OriginalText: originalText})
	return true, nil
}

func (f *fakeOverrideRepo) DeleteStale(ctx context.Context) (int64, int64, error) {
	return 0, 0, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// clickAt builds a click event row.
func clickAt(site, element, text string, ts time.Time) domain.EventRow {
	return domain.EventRow{
		SiteID:    site,
		Kind:      domain.KindClick,
		Page:      "/",
		Element:   element,
		Text:      text,
		Timestamp: ts,
	}
}

// visitAt builds a page-view event row.
func visitAt(site, page string, ts time.Time) domain.EventRow {
	return domain.EventRow{
		SiteID:    site,
		Kind:      domain.KindPageView,
		Page:      page,
		Timestamp: ts,
	}
}
