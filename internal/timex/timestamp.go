package timex

import (
	"database/sql"
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used for log, goal and task dates.
const DateLayout = "2006-01-02"

// TimestampLayout is RFC3339 with a fixed nine-digit fraction. Every stored
// value has the same width, so ORDER BY on the TEXT column is chronological.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp renders t as UTC in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC3339 value, with or without a fraction, so
// rows written by older builds and server payloads still parse.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// NullableTimestamp converts an optional time into a value suitable for a
// nullable TEXT column.
func NullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// ScanTimestamp converts a scanned nullable TEXT column back to *time.Time.
func ScanTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := ParseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NullableString maps nil to SQL NULL.
func NullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// ScanString maps SQL NULL to nil.
func ScanString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Date formats t as a calendar date in its own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}
