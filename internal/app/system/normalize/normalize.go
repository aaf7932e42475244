// Package normalize trims and canonicalizes user input before it is
// validated or stored.
package normalize

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for meeting dates.
const DateLayout = "2006-01-02"

// Email lowercases and trims.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses inner runs of whitespace; case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text trims surrounding whitespace only. Used for free-text notes where
// line breaks matter.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a query-string or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Label trims and collapses whitespace in short labels (campus, network,
// generation) so "  Rede   Jovem " and "Rede Jovem" compare equal.
func Label(s string) string {
	return Name(s)
}

// Date parses a YYYY-MM-DD value and returns it re-formatted.
// ok is false when s is not a valid calendar date.
func Date(s string) (string, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}
