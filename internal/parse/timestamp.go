package parse

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for reservation timestamps, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Timestamp parses an ISO-8601-like timestamp. Values without a zone are read as UTC.
func Timestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}

// StoreLayout is how the SQL store renders timestamps back to callers.
const StoreLayout = "2006-01-02T15:04:05"

// FormatTimestamp renders t the way PostgREST renders a timestamp column.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(StoreLayout)
}

// Interval parses a [start, end) pair and checks that it is non-empty.
func Interval(start, end string) (time.Time, time.Time, error) {
	s, err := Timestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_time: %w", err)
	}
	e, err := Timestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_time: %w", err)
	}
	if !s.Before(e) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_time %q must be before end_time %q", start, end)
	}
	return s, e, nil
}
