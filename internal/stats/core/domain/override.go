package domain

import "strings"

// LabelOverride renames an (element, original text) pair for display. Always
// scoped to a concrete site.
type LabelOverride struct {
	SiteID       string
	Element      string
	OriginalText string
	DisplayText  string
}

// MuteRule suppresses an (element, original text) pair from aggregation.
type MuteRule struct {
	SiteID       string
	Element      string
	OriginalText string
}

// OverrideKey is the case-insensitive lookup key shared by both override
// tables.
type OverrideKey struct {
	Element string
	Text    string
}

func KeyFor(element, text string) OverrideKey {
	return OverrideKey{
		Element: strings.ToLower(element),
		Text:    strings.ToLower(text),
	}
}

// Overrides is the resolved override view for one authorized scope.
type Overrides struct {
	Muted  map[OverrideKey]struct{}
	Labels map[OverrideKey]string
}

func NewOverrides() Overrides {
	return Overrides{
		Muted:  make(map[OverrideKey]struct{}),
		Labels: make(map[OverrideKey]string),
	}
}

func (o Overrides) IsMuted(element, text string) bool {
	_, ok := o.Muted[KeyFor(element, text)]
	return ok
}

// DisplayText resolves the display text for a pair, falling back to the
// original text. Labels never affect counts.
func (o Overrides) DisplayText(element, text string) string {
	if display, ok := o.Labels[KeyFor(element, text)]; ok {
		return display
	}
	return text
}
