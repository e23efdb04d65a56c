package domain

import "time"

// Event kinds recorded by the tracking snippet. The column is extensible;
// these are the kinds the ingester accepts today.
const (
	KindPageView = "page_view"
	KindClick    = "click"
)

type Event struct {
	SiteID    string
	Kind      string
	Page      string
	Element   string // empty for page views
	Text      string // empty for page views; capped by the ingester
	Href      string
	Referrer  string
	Timestamp time.Time
}
