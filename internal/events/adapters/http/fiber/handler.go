package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"site-analytics-service/internal/events/core/usecase"
)

type StoreEventsUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventsInput) (int, error)
}

type EventHandler struct {
	storeUC StoreEventsUseCase
}

func NewEventHandler(storeUC StoreEventsUseCase) *EventHandler {
	return &EventHandler{storeUC: storeUC}
}

// CreateEvents godoc
// @Summary Ingest a batch of tracking events
// @Description Appends page views and clicks posted by the tracking snippet
// @Tags Events
// @Accept json
// @Produce json
// @Param request body CreateEventsRequest true "Event batch"
// @Success 201 {object} CreateEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvents(c *fiber.Ctx) error {
	var req CreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	inputs := make([]usecase.EventInput, 0, len(req.Events))
	for _, e := range req.Events {
		var ts time.Time
		if e.Timestamp != "" {
			parsed, err := time.Parse(time.RFC3339, e.Timestamp)
			if err != nil {
				return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
					Error:   "invalid_timestamp",
					Message: "timestamps must be RFC3339",
				})
			}
			ts = parsed
		}

		inputs = append(inputs, usecase.EventInput{
			Kind:      e.Type,
			Page:      e.Page,
			Element:   e.Element,
			Text:      e.Text,
			Href:      e.Href,
			Referrer:  e.Referrer,
			Timestamp: ts,
		})
	}

	stored, err := h.storeUC.Execute(c.UserContext(), usecase.StoreEventsInput{
		SiteID: req.SiteID,
		Events: inputs,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSiteID),
			errors.Is(err, usecase.ErrInvalidEventKind),
			errors.Is(err, usecase.ErrFutureTime),
			errors.Is(err, usecase.ErrEmptyBatch):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_event",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "unavailable",
			})
		}
	}

	return c.Status(http.StatusCreated).JSON(CreateEventsResponse{Stored: stored})
}
