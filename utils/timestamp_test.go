package utils

import (
	"testing"
	"time"
)

func TestParseTimestampCompact(t *testing.T) {
	got, err := ParseTimestamp("20250101000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTimestampRFC3339(t *testing.T) {
	got, err := ParseTimestamp("2025-01-01T02:00:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "  ", "garbage", "2025011", "20251301000000", "01/01/2025"} {
		if _, err := ParseTimestamp(s); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", s)
		}
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	at := time.Date(2026, 6, 1, 23, 59, 59, 0, time.UTC)
	got, err := ParseTimestamp(FormatTimestamp(at))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !got.Equal(at) {
		t.Fatalf("got %v, want %v", got, at)
	}
}
