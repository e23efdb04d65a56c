package postgres

import (
	"context"
	"fmt"
	"strings"

	"site-analytics-service/internal/events/core/domain"
	"site-analytics-service/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

const insertEventsPrefix = `
INSERT INTO events (
    site_id,
    event_kind,
    page,
    element,
    text,
    href,
    referrer,
    event_time
) VALUES `

const insertEventColumns = 8

func (r *EventRepository) InsertEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(insertEventsPrefix)

	args := make([]any, 0, len(events)*insertEventColumns)
	for i, e := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * insertEventColumns
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args,
			e.SiteID,
			e.Kind,
			e.Page,
			nullable(e.Element),
			nullable(e.Text),
			nullable(e.Href),
			nullable(e.Referrer),
			e.Timestamp,
		)
	}
	sb.WriteString(";")

	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

// nullable maps the domain's empty string to SQL NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
