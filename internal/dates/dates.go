// Package dates handles local calendar dates in YYYY-MM-DD form.
//
// Day adjacency is computed on calendar dates, never on elapsed durations,
// so daylight-saving transitions do not affect the result.
package dates

import (
	"time"
)

// Layout is the local date layout used for persisted dates
const Layout = "2006-01-02"

// Format returns t as YYYY-MM-DD in t's own location
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse returns local midnight of the given date in loc
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(Layout, s, loc)
}

// IsNextDay reports whether next is the calendar day after prev.
// Malformed input is never adjacent. Arithmetic runs in UTC, which has no
// missing or repeated midnights.
func IsNextDay(prev, next string) bool {
	prevDate, err := Parse(prev, time.UTC)
	if err != nil {
		return false
	}
	nextDate, err := Parse(next, time.UTC)
	if err != nil {
		return false
	}
	return Format(prevDate.AddDate(0, 0, 1)) == Format(nextDate)
}

// IsSameDay compares two date strings exactly
func IsSameDay(a, b string) bool {
	return a == b
}

// Yesterday returns the calendar day before s, or "" if s is malformed
func Yesterday(s string) string {
	d, err := Parse(s, time.UTC)
	if err != nil {
		return ""
	}
	return Format(d.AddDate(0, 0, -1))
}
