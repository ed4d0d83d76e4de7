package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutInput    = "2006-01-02T15:04:05"
)

// timestampLayouts are tried in order; values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05-07:00",
	layoutDate,
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseTimestamp accepts the ISO-like forms found in trip exports.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatDate formats time to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}

// FormatInputFloor renders t for a datetime-local input, rounded down to the second.
func FormatInputFloor(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(layoutInput)
}

// FormatInputCeil rounds up to the second, so the rendered value still covers t.
func FormatInputCeil(t time.Time) string {
	u := t.UTC()
	if f := u.Truncate(time.Second); !f.Equal(u) {
		u = f.Add(time.Second)
	}
	return u.Format(layoutInput)
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}
