package domain

import "time"

// WindowCounts holds rolling-window counts measured against one shared "now"
// snapshot, so Day <= Week <= Month <= Year <= Total always holds.
type WindowCounts struct {
	Total int64
	Day   int64
	Week  int64
	Month int64
	Year  int64
}

// SummaryGroup is one (element, original text) group of surviving clicks.
type SummaryGroup struct {
	Element      string
	OriginalText string
	DisplayText  string
	Count        int64
	LastSeen     time.Time
}

// StatsReport is the full aggregation output: window counts for clicks and
// visits, the grouped click summary, and flat reverse-chronological event
// lists for detail views and export. All four parts derive from the same
// scoped, mute-filtered event set.
type StatsReport struct {
	Clicks WindowCounts
	Visits WindowCounts

	Summary []SummaryGroup

	AllClicks []EventRow
	AllVisits []EventRow
}
