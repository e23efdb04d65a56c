package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	authHttp "site-analytics-service/internal/auth/adapters/http/fiber"
	"site-analytics-service/internal/sites/core/domain"
	"site-analytics-service/internal/sites/core/usecase"
)

type SitesUseCase interface {
	Register(ctx context.Context, ownerID int64, name, siteDomain string) (*domain.Site, error)
	List(ctx context.Context, ownerID int64) ([]domain.Site, error)
	Delete(ctx context.Context, ownerID int64, siteID string) error
}

type SiteHandler struct {
	uc SitesUseCase

	// snippetBaseURL is the public origin baked into generated tracking
	// snippets; empty means same-origin relative URLs.
	snippetBaseURL string
}

func NewSiteHandler(uc SitesUseCase, snippetBaseURL string) *SiteHandler {
	return &SiteHandler{uc: uc, snippetBaseURL: snippetBaseURL}
}

// RegisterSite godoc
// @Summary Register a site and receive its tracking snippet
// @Tags Sites
// @Accept json
// @Produce json
// @Param request body RegisterSiteRequest true "Site payload"
// @Success 201 {object} RegisterSiteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sites [post]
func (h *SiteHandler) RegisterSite(c *fiber.Ctx) error {
	p, ok := authHttp.PrincipalFromCtx(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthenticated"})
	}

	var req RegisterSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	s, err := h.uc.Register(c.UserContext(), p.ID, req.Name, req.Domain)
	if err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Error: "unavailable"})
	}

	return c.Status(http.StatusCreated).JSON(RegisterSiteResponse{
		SiteID:  s.SiteID,
		Name:    s.Name,
		Domain:  s.Domain,
		Snippet: h.embedSnippet(s.SiteID),
	})
}

// ListSites godoc
// @Summary List the caller's sites
// @Tags Sites
// @Produce json
// @Success 200 {object} ListSitesResponse
// @Failure 401 {object} ErrorResponse
// @Router /sites [get]
func (h *SiteHandler) ListSites(c *fiber.Ctx) error {
	p, ok := authHttp.PrincipalFromCtx(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthenticated"})
	}

	sites, err := h.uc.List(c.UserContext(), p.ID)
	if err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Error: "unavailable"})
	}

	resp := ListSitesResponse{Sites: make([]SiteResponse, 0, len(sites))}
	for _, s := range sites {
		resp.Sites = append(resp.Sites, SiteResponse{
			SiteID:    s.SiteID,
			Name:      s.Name,
			Domain:    s.Domain,
			CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// DeleteSite godoc
// @Summary Delete an owned site and all of its data
// @Tags Sites
// @Produce json
// @Param site_id path string true "Site token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sites/{site_id} [delete]
func (h *SiteHandler) DeleteSite(c *fiber.Ctx) error {
	p, ok := authHttp.PrincipalFromCtx(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Error: "unauthenticated"})
	}

	err := h.uc.Delete(c.UserContext(), p.ID, c.Params("site_id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSiteID):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error: "invalid_site_id",
			})
		case errors.Is(err, usecase.ErrNotFoundOrForbidden):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Error: "not_found",
			})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Error: "unavailable"})
		}
	}

	return c.Status(http.StatusOK).JSON(MessageResponse{Message: "site deleted"})
}

// Snippet godoc
// @Summary Tracking snippet for a site
// @Description Serves the embeddable tracking script. No session required;
// only the token format is checked.
// @Tags Sites
// @Produce text/plain
// @Param site_id path string true "Site token"
// @Success 200 {string} string "JavaScript"
// @Failure 400 {object} ErrorResponse
// @Router /snippet/{site_id}.js [get]
func (h *SiteHandler) Snippet(c *fiber.Ctx) error {
	siteID := c.Params("site_id")
	if !domain.ValidSiteID(siteID) {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_site_id",
		})
	}

	c.Set(fiber.HeaderContentType, "application/javascript")
	return c.Status(http.StatusOK).SendString(trackerJS(siteID, h.snippetBaseURL))
}

func (h *SiteHandler) embedSnippet(siteID string) string {
	return fmt.Sprintf(
		`<script async src="%s/snippet/%s.js"></script>`,
		h.snippetBaseURL, siteID,
	)
}

// trackerJS renders the tracking script: page views on load, clicks on any
// element, element text capped at 100 chars, batched to the events endpoint.
func trackerJS(siteID, baseURL string) string {
	return fmt.Sprintf(`(function() {
    var SITE_ID = %q;
    var ENDPOINT = %q + "/events";

    function send(events) {
        fetch(ENDPOINT, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({ site_id: SITE_ID, events: events })
        }).catch(function() {});
    }

    send([{
        type: "page_view",
        page: window.location.pathname,
        referrer: document.referrer || null,
        timestamp: new Date().toISOString()
    }]);

    document.addEventListener("click", function(e) {
        var t = e.target;
        var text = (t.innerText || t.textContent || "").trim().slice(0, 100) || "(no text)";
        send([{
            type: "click",
            element: t.tagName.toLowerCase(),
            text: text,
            href: t.getAttribute && t.getAttribute("href"),
            page: window.location.pathname,
            referrer: document.referrer || null,
            timestamp: new Date().toISOString()
        }]);
    });
})();
`, siteID, baseURL)
}
