package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"site-analytics-service/internal/stats/core/domain"
)

var csvHeader = []string{
	"id",
	"event_kind",
	"page",
	"referrer",
	"element",
	"text",
	"href",
	"timestamp",
	"site_id",
}

// WriteCSV streams every event of the report as CSV, clicks first then
// visits, preserving the report's newest-first order within each list.
func WriteCSV(w io.Writer, report *domain.StatsReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, list := range [][]domain.EventRow{report.AllClicks, report.AllVisits} {
		for _, ev := range list {
			record := []string{
				strconv.FormatInt(ev.ID, 10),
				ev.Kind,
				ev.Page,
				ev.Referrer,
				ev.Element,
				ev.Text,
				ev.Href,
				ev.Timestamp.UTC().Format(time.RFC3339),
				ev.SiteID,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
