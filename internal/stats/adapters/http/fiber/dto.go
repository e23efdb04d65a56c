package fiber

// StatsResponse mirrors the dashboard payload: window counts for clicks and
// visits, the grouped summary, and the flat event lists.
type StatsResponse struct {
	TotalClicks int64 `json:"total_clicks"`
	DayClicks   int64 `json:"day_clicks"`
	WeekClicks  int64 `json:"week_clicks"`
	MonthClicks int64 `json:"month_clicks"`
	YearClicks  int64 `json:"year_clicks"`

	TotalVisits int64 `json:"total_visits"`
	DayVisits   int64 `json:"day_visits"`
	WeekVisits  int64 `json:"week_visits"`
	MonthVisits int64 `json:"month_visits"`
	YearVisits  int64 `json:"year_visits"`

	Summary   []SummaryGroupBody `json:"summary"`
	AllClicks []EventBody        `json:"all_clicks"`
	AllVisits []EventBody        `json:"all_visits"`
}

type SummaryGroupBody struct {
	Element      string `json:"element"`
	OriginalText string `json:"original_text"`
	Text         string `json:"text"`
	Count        int64  `json:"count"`
	LastClick    string `json:"last_click"`
}

type EventBody struct {
	ID        int64  `json:"id"`
	SiteID    string `json:"site_id"`
	Kind      string `json:"kind"`
	Page      string `json:"page"`
	Element   string `json:"element,omitempty"`
	Text      string `json:"text,omitempty"`
	Href      string `json:"href,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SetLabelRequest renames an (element, text) pair for display
// @Description Label override DTO
type SetLabelRequest struct {
	SiteID       string `json:"site_id"`
	Element      string `json:"element"`
	OriginalText string `json:"original_text"`
	DisplayText  string `json:"display_text"`
}

type SetLabelResponse struct {
	Status string `json:"status" example:"ok"`
}

// ToggleMuteRequest flips the mute rule for an (element, text) pair
// @Description Mute toggle DTO
type ToggleMuteRequest struct {
	SiteID       string `json:"site_id"`
	Element      string `json:"element"`
	OriginalText string `json:"original_text"`
}

type ToggleMuteResponse struct {
	Action string `json:"action" example:"muted"` // muted or unmuted
}

type ResetEventsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

type CleanupStaleResponse struct {
	DeletedLabels int64 `json:"deleted_labels"`
	DeletedMutes  int64 `json:"deleted_mutes"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message,omitempty"`
}
