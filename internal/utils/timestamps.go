package utils

import (
	"fmt"
	"strings"
	"time"
)

const minuteLayout = "2006-01-02T15:04"

// ParseTimestamp accepts RFC3339, a local "YYYY-MM-DDTHH:MM" or a plain "YYYY-MM-DD".
// Values without an offset are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(minuteLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ParseOptionalTimestamp is ParseTimestamp for fields that may be empty.
func ParseOptionalTimestamp(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatOptional(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}
