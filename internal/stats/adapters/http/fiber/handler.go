package fiber

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	authhttp "site-analytics-service/internal/auth/adapters/http/fiber"
	"site-analytics-service/internal/export"
	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/usecase"
)

type GetStatsUseCase interface {
	Execute(ctx context.Context, principalID int64, siteFilter string) (*domain.StatsReport, error)
}

type OverridesUseCase interface {
	SetLabel(ctx context.Context, principalID int64, siteID, element, originalText, displayText string) error
	ToggleMute(ctx context.Context, principalID int64, siteID, element, originalText string) (bool, error)
	CleanupStale(ctx context.Context) (int64, int64, error)
}

type ResetEventsUseCase interface {
	Execute(ctx context.Context, principalID int64, siteFilter string) (int64, error)
}

type StatsHandler struct {
	statsUC     GetStatsUseCase
	overridesUC OverridesUseCase
	resetUC     ResetEventsUseCase
}

func NewStatsHandler(statsUC GetStatsUseCase, overridesUC OverridesUseCase, resetUC ResetEventsUseCase) *StatsHandler {
	return &StatsHandler{
		statsUC:     statsUC,
		overridesUC: overridesUC,
		resetUC:     resetUC,
	}
}

// GetStats godoc
// @Summary Aggregated statistics for the caller's sites
// @Description Window counts, grouped click summary, and flat event lists, optionally filtered to one owned site
// @Tags Stats
// @Produce json
// @Param site_id query string false "Restrict to one owned site"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	p, ok := authhttp.PrincipalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	report, err := h.statsUC.Execute(c.UserContext(), p.ID, c.Query("site_id"))
	if err != nil {
		return mapScopeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toStatsResponse(report))
}

// SetLabel godoc
// @Summary Rename a clicked element for display
// @Description Sets the display text shown for an (element, text) pair without changing counts
// @Tags Stats
// @Accept json
// @Produce json
// @Param request body SetLabelRequest true "Label override"
// @Success 200 {object} SetLabelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/label [post]
func (h *StatsHandler) SetLabel(c *fiber.Ctx) error {
	p, ok := authhttp.PrincipalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	var req SetLabelRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_json", "")
	}

	err := h.overridesUC.SetLabel(c.UserContext(), p.ID, req.SiteID, req.Element, req.OriginalText, req.DisplayText)
	if err != nil {
		return mapScopeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(SetLabelResponse{Status: "ok"})
}

// ToggleMute godoc
// @Summary Mute or unmute a clicked element
// @Description Flips the mute rule for an (element, text) pair and reports the resulting state
// @Tags Stats
// @Accept json
// @Produce json
// @Param request body ToggleMuteRequest true "Mute toggle"
// @Success 200 {object} ToggleMuteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/mute [post]
func (h *StatsHandler) ToggleMute(c *fiber.Ctx) error {
	p, ok := authhttp.PrincipalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	var req ToggleMuteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_json", "")
	}

	muted, err := h.overridesUC.ToggleMute(c.UserContext(), p.ID, req.SiteID, req.Element, req.OriginalText)
	if err != nil {
		return mapScopeError(c, err)
	}

	action := "unmuted"
	if muted {
		action = "muted"
	}
	return c.Status(http.StatusOK).JSON(ToggleMuteResponse{Action: action})
}

// ResetEvents godoc
// @Summary Delete events in scope
// @Description Deletes all events for one owned site, or for every owned site when no filter is given
// @Tags Events
// @Produce json
// @Param site_id query string false "Restrict to one owned site"
// @Success 200 {object} ResetEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /events [delete]
func (h *StatsHandler) ResetEvents(c *fiber.Ctx) error {
	p, ok := authhttp.PrincipalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	deleted, err := h.resetUC.Execute(c.UserContext(), p.ID, c.Query("site_id"))
	if err != nil {
		return mapScopeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(ResetEventsResponse{DeletedCount: deleted})
}

// CleanupStaleOverrides godoc
// @Summary Remove override rows whose site is gone
// @Tags Stats
// @Produce json
// @Success 200 {object} CleanupStaleResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/overrides/stale [delete]
func (h *StatsHandler) CleanupStaleOverrides(c *fiber.Ctx) error {
	if _, ok := authhttp.PrincipalFromCtx(c); !ok {
		return unauthenticated(c)
	}

	labels, mutes, err := h.overridesUC.CleanupStale(c.UserContext())
	if err != nil {
		return unavailable(c)
	}

	return c.Status(http.StatusOK).JSON(CleanupStaleResponse{
		DeletedLabels: labels,
		DeletedMutes:  mutes,
	})
}

// ExportStats godoc
// @Summary Export the scoped report
// @Description Streams the report as CSV (all events) or PDF (summary)
// @Tags Stats
// @Produce text/csv
// @Param format query string true "csv or pdf"
// @Param site_id query string false "Restrict to one owned site"
// @Success 200
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/export [get]
func (h *StatsHandler) ExportStats(c *fiber.Ctx) error {
	p, ok := authhttp.PrincipalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	format := c.Query("format", "csv")
	if format != "csv" && format != "pdf" {
		return badRequest(c, "invalid_format", "format must be csv or pdf")
	}

	report, err := h.statsUC.Execute(c.UserContext(), p.ID, c.Query("site_id"))
	if err != nil {
		return mapScopeError(c, err)
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, report); err != nil {
			return unavailable(c)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="stats.csv"`)
	case "pdf":
		if err := export.WritePDF(&buf, report, time.Now()); err != nil {
			return unavailable(c)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="stats.pdf"`)
	}

	return c.Status(http.StatusOK).Send(buf.Bytes())
}

func toStatsResponse(report *domain.StatsReport) StatsResponse {
	resp := StatsResponse{
		TotalClicks: report.Clicks.Total,
		DayClicks:   report.Clicks.Day,
		WeekClicks:  report.Clicks.Week,
		MonthClicks: report.Clicks.Month,
		YearClicks:  report.Clicks.Year,

		TotalVisits: report.Visits.Total,
		DayVisits:   report.Visits.Day,
		WeekVisits:  report.Visits.Week,
		MonthVisits: report.Visits.Month,
		YearVisits:  report.Visits.Year,

		Summary:   make([]SummaryGroupBody, 0, len(report.Summary)),
		AllClicks: make([]EventBody, 0, len(report.AllClicks)),
		AllVisits: make([]EventBody, 0, len(report.AllVisits)),
	}

	for _, g := range report.Summary {
		resp.Summary = append(resp.Summary, SummaryGroupBody{
			Element:      g.Element,
			OriginalText: g.OriginalText,
			Text:         g.DisplayText,
			Count:        g.Count,
			LastClick:    g.LastSeen.UTC().Format(time.RFC3339),
		})
	}
	for _, ev := range report.AllClicks {
		resp.AllClicks = append(resp.AllClicks, toEventBody(ev))
	}
	for _, ev := range report.AllVisits {
		resp.AllVisits = append(resp.AllVisits, toEventBody(ev))
	}

	return resp
}

func toEventBody(ev domain.EventRow) EventBody {
	return EventBody{
		ID:        ev.ID,
		SiteID:    ev.SiteID,
		Kind:      ev.Kind,
		Page:      ev.Page,
		Element:   ev.Element,
		Text:      ev.Text,
		Href:      ev.Href,
		Referrer:  ev.Referrer,
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
	}
}

func mapScopeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidSiteID):
		return badRequest(c, "invalid_site_id", err.Error())
	case errors.Is(err, usecase.ErrInvalidOverride):
		return badRequest(c, "invalid_override", err.Error())
	case errors.Is(err, usecase.ErrNotFoundOrForbidden):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "not_found",
		})
	default:
		return unavailable(c)
	}
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Error: "unauthenticated",
	})
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
		Error: "unavailable",
	})
}
