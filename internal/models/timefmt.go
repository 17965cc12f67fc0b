package models

import (
	"strings"
	"time"
)

// Layout of an HTML datetime-local value, the format the quiz editor stores.
const DateTimeLocal = "2006-01-02T15:04"

var dateLayouts = []string{
	time.RFC3339Nano,
	DateTimeLocal + ":05",
	DateTimeLocal,
	time.DateOnly,
}

// ParseDateTime parses the date strings the backend hands out. Values without a zone
// are read in loc. Empty or unparseable values report false.
func ParseDateTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseOptional(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseDateTime(*s, loc)
}
