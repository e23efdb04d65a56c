package domain

import (
	"regexp"
	"time"
)

// Site is a registered, trackable website owned by exactly one principal.
type Site struct {
	ID        int64
	SiteID    string // opaque public token, "site_" + 8 hex chars
	OwnerID   int64
	Name      string
	Domain    string
	CreatedAt time.Time
}

var siteIDPattern = regexp.MustCompile(`^site_[0-9a-f]{8}$`)

// ValidSiteID reports whether s matches the site token format. Identifiers
// are format-checked before any lookup.
func ValidSiteID(s string) bool {
	return siteIDPattern.MatchString(s)
}
