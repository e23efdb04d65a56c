package fiber

// RegisterSiteRequest represents site registration payload
// @Description Site registration DTO
type RegisterSiteRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

type RegisterSiteResponse struct {
	SiteID  string `json:"site_id"`
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Snippet string `json:"snippet"`
}

type SiteResponse struct {
	SiteID    string `json:"site_id"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	CreatedAt string `json:"created_at"`
}

type ListSitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message,omitempty"`
}
