package usecase

import (
	"context"
	"errors"
	"time"

	"site-analytics-service/internal/events/core/domain"
	"site-analytics-service/internal/events/core/ports"
	sitesdomain "site-analytics-service/internal/sites/core/domain"
)

var (
	ErrInvalidSiteID    = errors.New("invalid site identifier")
	ErrInvalidEventKind = errors.New("invalid event kind")
	ErrFutureTime       = errors.New("timestamp cannot be in the future")
	ErrEmptyBatch       = errors.New("events list is empty")
)

// maxTextRunes caps stored element text; the snippet already truncates, this
// re-enforces the bound for writers that do not.
const maxTextRunes = 100

type StoreEventsUseCase struct {
	repo ports.EventRepositoryPort
	now  func() time.Time
}

func NewStoreEventsUseCase(repo ports.EventRepositoryPort) *StoreEventsUseCase {
	return &StoreEventsUseCase{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (uc *StoreEventsUseCase) WithClock(now func() time.Time) *StoreEventsUseCase {
	uc.now = now
	return uc
}

type EventInput struct {
	Kind      string
	Page      string
	Element   string
	Text      string
	Href      string
	Referrer  string
	Timestamp time.Time // zero means "now"
}

type StoreEventsInput struct {
	SiteID string
	Events []EventInput
}

// Execute validates and appends a batch of events for one site. The batch is
// validated as a whole before anything is written. Ownership is not checked
// here: the snippet posts anonymously, and rows for a deleted site disappear
// with the cascade.
func (uc *StoreEventsUseCase) Execute(ctx context.Context, in StoreEventsInput) (int, error) {
	if !sitesdomain.ValidSiteID(in.SiteID) {
		return 0, ErrInvalidSiteID
	}
	if len(in.Events) == 0 {
		return 0, ErrEmptyBatch
	}

	now := uc.now().UTC()

	events := make([]domain.Event, 0, len(in.Events))
	for _, ev := range in.Events {
		if ev.Kind != domain.KindPageView && ev.Kind != domain.KindClick {
			return 0, ErrInvalidEventKind
		}

		ts := ev.Timestamp
		if ts.IsZero() {
			ts = now
		} else {
			ts = ts.UTC()
			if ts.After(now) {
				return 0, ErrFutureTime
			}
		}

		events = append(events, domain.Event{
			SiteID:    in.SiteID,
			Kind:      ev.Kind,
			Page:      ev.Page,
			Element:   ev.Element,
			Text:      truncateText(ev.Text),
			Href:      ev.Href,
			Referrer:  ev.Referrer,
			Timestamp: ts,
		})
	}

	if err := uc.repo.InsertEvents(ctx, events); err != nil {
		return 0, err
	}

	return len(events), nil
}

func truncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTextRunes {
		return s
	}
	return string(runes[:maxTextRunes])
}
