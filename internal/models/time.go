package models

import (
	"strings"
	"time"
)

// timeLayouts are tried in order when decoding backend timestamps. Only the
// first carries a zone; the rest are wall-clock values.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime decodes the timestamp formats the backend is known to send.
// Values without a zone, including date-only values, are read in time.Local
// so they compare as calendar dates against filter dates. The second result
// is false for empty or unrecognised input.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
