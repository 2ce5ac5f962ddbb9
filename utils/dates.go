package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats accepted for form dates, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFormDate parses a date submitted by a form, either a bare date or a full timestamp
func ParseFormDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
}

// NormalizeEmail lowercases and trims an email so uniqueness checks are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
