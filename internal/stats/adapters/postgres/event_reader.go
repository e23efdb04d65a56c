package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"site-analytics-service/internal/stats/core/domain"
	"site-analytics-service/internal/stats/core/ports"
)

// EventReadRepository reads and bulk-deletes events for the aggregation
// engine.
type EventReadRepository struct {
	db DB
}

func NewEventReadRepository(db DB) *EventReadRepository {
	return &EventReadRepository{db: db}
}

var _ ports.EventReaderPort = (*EventReadRepository)(nil)

const listEventsBySitesSQL = `
SELECT id, site_id, event_kind, page, element, text, href, referrer, event_time
FROM events
WHERE site_id = ANY($1)
ORDER BY event_time DESC, id DESC;
`

func (r *EventReadRepository) ListBySites(ctx context.Context, siteIDs []string) ([]domain.EventRow, error) {
	rows, err := r.db.QueryContext(ctx, listEventsBySitesSQL, pq.Array(siteIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.EventRow
	for rows.Next() {
		var ev domain.EventRow
		var element, text, href, referrer sql.NullString
		var eventTime time.Time
		if err := rows.Scan(
			&ev.ID,
			&ev.SiteID,
			&ev.Kind,
			&ev.Page,
			&element,
			&text,
			&href,
			&referrer,
			&eventTime,
		); err != nil {
			return nil, err
		}
		ev.Element = element.String
		ev.Text = text.String
		ev.Href = href.String
		ev.Referrer = referrer.String
		ev.Timestamp = eventTime.UTC()
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

const deleteEventsBySitesSQL = `
DELETE FROM events
WHERE site_id = ANY($1);
`

func (r *EventReadRepository) DeleteBySites(ctx context.Context, siteIDs []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteEventsBySitesSQL, pq.Array(siteIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
