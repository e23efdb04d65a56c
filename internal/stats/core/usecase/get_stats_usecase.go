package usecase

import (
	"context"
	"sort"
	"time"

	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/ports"
)

// GetStatsUseCase is the aggregation engine. One fetched, scoped,
// mute-filtered event slice is the single source for window counts, the
// grouped summary, and the flat lists, so the three can never disagree about
// which events are in scope.
type GetStatsUseCase struct {
	gate      *ScopeGate
	events    ports.EventReaderPort
	overrides ports.OverrideRepositoryPort
	now       func() time.Time

	// legacyClickTags also counts kindless events on interactive elements
	// as clicks. Classification is by event kind unless this is set.
	legacyClickTags bool
}

func NewGetStatsUseCase(gate *ScopeGate, events ports.EventReaderPort, overrides ports.OverrideRepositoryPort) *GetStatsUseCase {
	return &GetStatsUseCase{
		gate:      gate,
		events:    events,
		overrides: overrides,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (uc *GetStatsUseCase) WithClock(now func() time.Time) *GetStatsUseCase {
	uc.now = now
	return uc
}

// WithLegacyClickTags enables tag-based click classification for events
// ingested before kinds were recorded.
func (uc *GetStatsUseCase) WithLegacyClickTags(enabled bool) *GetStatsUseCase {
	uc.legacyClickTags = enabled
	return uc
}

// Execute aggregates the principal's authorized events into a StatsReport.
// An empty scope yields a zero report, not an error.
func (uc *GetStatsUseCase) Execute(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
	scope, err := uc.gate.Resolve(ctx, principalID, siteFilter)
	if err != nil {
		return nil, err
	}

	report := &domain.StatsReport{
		Summary:   []domain.SummaryGroup{},
		AllClicks: []domain.EventRow{},
		AllVisits: []domain.EventRow{},
	}

	if scope.Empty() {
		return report, nil
	}

	events, err := uc.events.ListBySites(ctx, scope.SiteIDs)
	if err != nil {
		return nil, err
	}

	overrides, err := uc.ResolveOverrides(ctx, scope)
	if err != nil {
		return nil, err
	}

	// One now snapshot for every window, so counts shrink monotonically as
	// the window does.
	now := uc.now().UTC()

	for _, ev := range events {
		if overrides.IsMuted(ev.Element, ev.Text) {
			continue
		}
		switch {
		case uc.isClick(ev):
			report.AllClicks = append(report.AllClicks, ev)
		case ev.Kind == domain.KindPageView:
			report.AllVisits = append(report.AllVisits, ev)
		}
	}

	report.Clicks = windowCounts(report.AllClicks, now)
	report.Visits = windowCounts(report.AllVisits, now)
	report.Summary = groupClicks(report.AllClicks, overrides)

	return report, nil
}

// ResolveOverrides builds the override view visible under scope: every rule
// whose site is in the authorized set. Rules scoped to sites the principal
// does not own are never consulted.
func (uc *GetStatsUseCase) ResolveOverrides(ctx context.Context, scope domain.AuthorizedScope) (domain.Overrides, error) {
	resolved := domain.NewOverrides()
	if scope.Empty() {
		return resolved, nil
	}

	mutes, err := uc.overrides.ListMutes(ctx, scope.SiteIDs)
	if err != nil {
		return domain.Overrides{}, err
	}
	for _, m := range mutes {
		resolved.Muted[domain.KeyFor(m.Element, m.OriginalText)] = struct{}{}
	}

	labels, err := uc.overrides.ListLabels(ctx, scope.SiteIDs)
	if err != nil {
		return domain.Overrides{}, err
	}
	for _, l := range labels {
		resolved.Labels[domain.KeyFor(l.Element, l.OriginalText)] = l.DisplayText
	}

	return resolved, nil
}

func (uc *GetStatsUseCase) isClick(ev domain.EventRow) bool {
	if ev.Kind == domain.KindClick {
		return true
	}
	if uc.legacyClickTags && ev.Kind == "" {
		return ev.Element == "button" || ev.Element == "a"
	}
	return false
}

func windowCounts(events []domain.EventRow, now time.Time) domain.WindowCounts {
	var c domain.WindowCounts
	day := now.AddDate(0, 0, -1)
	week := now.AddDate(0, 0, -7)
	month := now.AddDate(0, 0, -30)
	year := now.AddDate(0, 0, -365)

	for _, ev := range events {
		c.Total++
		if !ev.Timestamp.Before(day) {
			c.Day++
		}
		if !ev.Timestamp.Before(week) {
			c.Week++
		}
		if !ev.Timestamp.Before(month) {
			c.Month++
		}
		if !ev.Timestamp.Before(year) {
			c.Year++
		}
	}
	return c
}

// groupClicks groups surviving clicks by their case-insensitive
// (element, text) key. Identical text under different elements stays in
// separate groups. Order: count desc, last timestamp desc, original text asc,
// element asc.
func groupClicks(clicks []domain.EventRow, overrides domain.Overrides) []domain.SummaryGroup {
	type agg struct {
		element  string
		text     string
		count    int64
		lastSeen time.Time
	}

	groups := make(map[domain.OverrideKey]*agg)
	for _, ev := range clicks {
		key := domain.KeyFor(ev.Element, ev.Text)
		g, ok := groups[key]
		if !ok {
			g = &agg{element: ev.Element, text: ev.Text}
			groups[key] = g
		}
		g.count++
		if ev.Timestamp.After(g.lastSeen) {
			g.lastSeen = ev.Timestamp
			// Surface the casing of the most recent event.
			g.element = ev.Element
			g.text = ev.Text
		}
	}

	summary := make([]domain.SummaryGroup, 0, len(groups))
	for _, g := range groups {
		summary = append(summary, domain.SummaryGroup{
			Element:      g.element,
			OriginalText: g.text,
			DisplayText:  overrides.DisplayText(g.element, g.text),
			Count:        g.count,
			LastSeen:     g.lastSeen,
		})
	}

	sort.Slice(summary, func(i, j int) bool {
		a, b := summary[i], summary[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.LastSeen.Equal(b.LastSeen) {
			return a.LastSeen.After(b.LastSeen)
		}
		if a.OriginalText != b.OriginalText {
			return a.OriginalText < b.OriginalText
		}
		return a.Element < b.Element
	})

	return summary
}
