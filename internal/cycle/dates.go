package cycle

import (
	"strings"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
)

// Accepted ISO-8601 forms, tried in order. Layouts without an offset are read in the
// caller's location.
var (
	offsetLayouts = []string{
		time.RFC3339Nano, // also accepts values without fractional seconds
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		// date-only means local midnight, not the UTC midnight ECMAScript Date uses
		"2006-01-02",
	}
)

// ParseExpenseDate parses a stored expense date. It only accepts ISO-8601 forms so the result
// never depends on the host locale. The boolean is false for anything it cannot parse.
func ParseExpenseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatExpenseDate renders t in the canonical stored form
func FormatExpenseDate(t time.Time) string {
	return t.UTC().Format(domain.ExpenseDateLayout)
}
