package domain

// AuthorizedScope is the resolved set of site tokens one request is permitted
// to read. It is produced by the scoping gate before any event query is built;
// nothing downstream touches the event store without one.
type AuthorizedScope struct {
	// SiteIDs are the authorized site tokens. May be empty: a principal who
	// owns no sites gets an empty scope, not an error.
	SiteIDs []string

	// AllOwned is true when no explicit site filter was applied and the scope
	// covers every site the principal owns.
	AllOwned bool
}

func (s AuthorizedScope) Empty() bool {
	return len(s.SiteIDs) == 0
}

func (s AuthorizedScope) Contains(siteID string) bool {
	for _, id := range s.SiteIDs {
		if id == siteID {
			return true
		}
	}
	return false
}
