package fiber

// CreateEventsRequest represents a tracking-snippet batch
// @Description Event batch DTO
type CreateEventsRequest struct {
	SiteID string          `json:"site_id"`
	Events []batchItemBody `json:"events"`
}

type batchItemBody struct {
	Type      string `json:"type"`
	Page      string `json:"page"`
	Element   string `json:"element"`
	Text      string `json:"text"`
	Href      string `json:"href"`
	Referrer  string `json:"referrer"`
	Timestamp string `json:"timestamp"` // RFC3339; empty means receive time
}

type CreateEventsResponse struct {
	Stored int `json:"stored"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message,omitempty"`
}
