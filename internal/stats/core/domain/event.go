package domain

import "time"

// Event kinds relevant to aggregation.
const (
	KindPageView = "page_view"
	KindClick    = "click"
)

// EventRow is the read model of one stored interaction event. Optional
// columns surface as empty strings.
type EventRow struct {
	ID        int64
	SiteID    string
	Kind      string
	Page      string
	Element   string
	Text      string
	Href      string
	Referrer  string
	Timestamp time.Time
}
