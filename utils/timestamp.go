package utils

import (
	"errors"
	"strings"
	"time"
)

// Billing systems send compact YYYYMMDDHHMMSS timestamps; API clients tend to
// send RFC 3339. Both are accepted and treated as UTC instants.
const compactLayout = "20060102150405"

var ErrBadTimestamp = errors.New("unrecognized timestamp")

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	if len(s) == len(compactLayout) {
		if t, err := time.ParseInLocation(compactLayout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrBadTimestamp
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(compactLayout)
}
