package fiber_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	authdomain "site-analytics-service/internal/auth/core/domain"
	httpadapter "site-analytics-service/internal/stats/adapters/http/fiber"
	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/usecase"
)

// Fake usecases implementing the interfaces the handler depends on.

type fakeGetStatsUseCase struct {
	ExecuteFn  func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error)
	lastFilter string
	called     bool
}

func (f *fakeGetStatsUseCase) Execute(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
	f.called = true
	f.lastFilter = siteFilter
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, principalID, siteFilter)
	}
	return &domain.StatsReport{}, nil
}

type fakeOverridesUseCase struct {
	SetLabelFn   func(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error
	ToggleMuteFn func(ctx context.Context, principalID int64, siteID, element, originalText string) (bool, error)
}

func (f *fakeOverridesUseCase) SetLabel(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error {
	if f.SetLabelFn != nil {
		return f.SetLabelFn(ctx, principalID, siteID, element, originalText, displayText)
	}
	return nil
}

func (f *fakeOverridesUseCase) ToggleMute(ctx context.Context, principalID int64, siteID, element, originalText string) (bool, error) {
	if f.ToggleMuteFn != nil {
		return f.ToggleMuteFn(ctx, principalID, siteID, element, originalText)
	}
	return false, nil
}

func (f *fakeOverridesUseCase) CleanupStale(ctx context.Context) (int64, int64, error) {
	return 0, 0, nil
}

type fakeResetEventsUseCase struct {
	ExecuteFn func(ctx context.Context, principalID int64, siteFilter string) (int64, error)
}

func (f *fakeResetEventsUseCase) Execute(ctx context.Context, principalID int64, siteFilter string) (int64, error) {
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, principalID, siteFilter)
	}
	return 0, nil
}

func setupApp(t *testing.T, stats httpadapter.GetStatsUseCase, overrides httpadapter.OverridesUseCase, reset httpadapter.ResetEventsUseCase) *fiber.App {
	t.Helper()
	app := fiber.New()
	// Stand-in for the session middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("principal", &authdomain.Principal{ID: 1, Username: "alice"})
		return c.Next()
	})
	h := httpadapter.NewStatsHandler(stats, overrides, reset)
	app.Get("/stats", h.GetStats)
	app.Get("/stats/export", h.ExportStats)
	app.Post("/stats/label", h.SetLabel)
	app.Post("/stats/mute", h.ToggleMute)
	app.Delete("/stats/overrides/stale", h.CleanupStaleOverrides)
	app.Delete("/events", h.ResetEvents)
	return app
}

// ------------------------------------------------------------
// GET /stats
// ------------------------------------------------------------

func TestGetStats_Success(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	stats := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
			if principalID != 1 {
				t.Fatalf("expected principal 1, got %d", principalID)
			}
			return &domain.StatsReport{
				Clicks: domain.WindowCounts{Total: 10, Day: 1, Week: 3, Month: 7, Year: 10},
				Visits: domain.WindowCounts{Total: 4, Day: 2, Week: 2, Month: 4, Year: 4},
				Summary: []domain.SummaryGroup{
					{Element: "button", OriginalText: "btn-42", DisplayText: "Checkout", Count: 10, LastSeen: ts},
				},
				AllClicks: []domain.EventRow{{ID: 1, SiteID: "site_aaaaaaaa", Kind: "click", Page: "/", Timestamp: ts}},
				AllVisits: []domain.EventRow{},
			}, nil
		},
	}

	app := setupApp(t, stats, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats?site_id=site_aaaaaaaa", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if stats.lastFilter != "site_aaaaaaaa" {
		t.Fatalf("filter not forwarded, got %q", stats.lastFilter)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["total_clicks"].(float64) != 10 {
		t.Fatalf("unexpected total_clicks: %v", body["total_clicks"])
	}
	summary := body["summary"].([]any)
	group := summary[0].(map[string]any)
	if group["original_text"] != "btn-42" || group["text"] != "Checkout" {
		t.Fatalf("unexpected summary group: %v", group)
	}
}

func TestGetStats_UnknownSiteIs404(t *testing.T) {
	stats := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
			return nil, usecase.ErrNotFoundOrForbidden
		},
	}

	app := setupApp(t, stats, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats?site_id=site_99999999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetStats_MalformedSiteIs400(t *testing.T) {
	stats := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
			return nil, usecase.ErrInvalidSiteID
		},
	}

	app := setupApp(t, stats, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats?site_id=bogus", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetStats_StorageFailureIs503(t *testing.T) {
	stats := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
			return nil, io.ErrUnexpectedEOF
		},
	}

	app := setupApp(t, stats, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["error"] != "unavailable" {
		t.Fatalf("internal detail leaked: %v", body)
	}
}

// ------------------------------------------------------------
// POST /stats/mute
// ------------------------------------------------------------

func TestToggleMute_ReportsAction(t *testing.T) {
	for _, muted := range []bool{true, false} {
		overrides := &fakeOverridesUseCase{
			ToggleMuteFn: func(ctx context.Context, principalID int64, siteID, element, originalText string) (bool, error) {
				return muted, nil
			},
		}

		app := setupApp(t, &fakeGetStatsUseCase{}, overrides, &fakeResetEventsUseCase{})

		body := `{"site_id":"site_aaaaaaaa","element":"button","original_text":"Buy"}`
		req := httptest.NewRequest(http.MethodPost, "/stats/mute", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var out map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		want := "unmuted"
		if muted {
			want = "muted"
		}
		if out["action"] != want {
			t.Fatalf("expected action=%s, got %s", want, out["action"])
		}
	}
}

func TestToggleMute_ForeignSiteIs404(t *testing.T) {
	overrides := &fakeOverridesUseCase{
		ToggleMuteFn: func(ctx context.Context, principalID int64, siteID, element, originalText string) (bool, error) {
			return false, usecase.ErrNotFoundOrForbidden
		},
	}

	app := setupApp(t, &fakeGetStatsUseCase{}, overrides, &fakeResetEventsUseCase{})

	body := `{"site_id":"site_bbbbbbbb","element":"button","original_text":"Buy"}`
	req := httptest.NewRequest(http.MethodPost, "/stats/mute", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// POST /stats/label
// ------------------------------------------------------------

func TestSetLabel_Success(t *testing.T) {
	var got [4]string
	overrides := &fakeOverridesUseCase{
		SetLabelFn: func(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error {
			got = [4]string{siteID, element, originalText, displayText}
			return nil
		},
	}

	app := setupApp(t, &fakeGetStatsUseCase{}, overrides, &fakeResetEventsUseCase{})

	body := `{"site_id":"site_aaaaaaaa","element":"button","original_text":"btn-42","display_text":"Checkout"}`
	req := httptest.NewRequest(http.MethodPost, "/stats/label", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got != [4]string{"site_aaaaaaaa", "button", "btn-42", "Checkout"} {
		t.Fatalf("unexpected forwarded values: %v", got)
	}
}

func TestSetLabel_BlankFieldsIs400(t *testing.T) {
	overrides := &fakeOverridesUseCase{
		SetLabelFn: func(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error {
			return usecase.ErrInvalidOverride
		},
	}

	app := setupApp(t, &fakeGetStatsUseCase{}, overrides, &fakeResetEventsUseCase{})

	body := `{"site_id":"site_aaaaaaaa","element":"","original_text":"x","display_text":"y"}`
	req := httptest.NewRequest(http.MethodPost, "/stats/label", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// DELETE /events
// ------------------------------------------------------------

func TestResetEvents_ReturnsCount(t *testing.T) {
	reset := &fakeResetEventsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (int64, error) {
			if siteFilter != "site_aaaaaaaa" {
				t.Fatalf("filter not forwarded, got %q", siteFilter)
			}
			return 12, nil
		},
	}

	app := setupApp(t, &fakeGetStatsUseCase{}, &fakeOverridesUseCase{}, reset)

	req := httptest.NewRequest(http.MethodDelete, "/events?site_id=site_aaaaaaaa", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out["deleted_count"] != 12 {
		t.Fatalf("expected deleted_count=12, got %d", out["deleted_count"])
	}
}

// ------------------------------------------------------------
// GET /stats/export
// ------------------------------------------------------------

func TestExportStats_CSV(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	stats := &fakeGetStatsUseCase{
		ExecuteFn: func(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error) {
			return &domain.StatsReport{
				AllClicks: []domain.EventRow{
					{ID: 1, SiteID: "site_aaaaaaaa", Kind: "click", Page: "/", Element: "button", Text: "Buy", Timestamp: ts},
				},
			}, nil
		},
	}

	app := setupApp(t, stats, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats/export?format=csv", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %s", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !strings.Contains(string(data), "site_aaaaaaaa") {
		t.Fatalf("expected event data in CSV, got: %s", data)
	}
}

func TestExportStats_UnknownFormatIs400(t *testing.T) {
	app := setupApp(t, &fakeGetStatsUseCase{}, &fakeOverridesUseCase{}, &fakeResetEventsUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/stats/export?format=xml", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
