// Package dates builds and parses the local-calendar "YYYY-MM-DD" keys used by
// every document in the store. Keys are always derived from the year/month/day
// components of a time in its own location, never from a UTC timestamp slice,
// so a late-evening entry never lands on the next day.
package dates

import (
	"fmt"
	"time"
)

// Layout is the canonical date key format.
const Layout = "2006-01-02"

// GridCells is the number of cells in a month grid (6 weeks of 7 days).
const GridCells = 42

// Key returns the YYYY-MM-DD key for t using t's own location.
func Key(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse parses a date key into midnight in loc. A nil loc means time.Local.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed date key.
func Valid(key string) bool {
	_, err := time.Parse(Layout, key)
	return err == nil
}

// AddDays shifts a date key by n calendar days. Uses AddDate so month and year
// boundaries (and DST transitions) are handled by the time package.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return Key(t.AddDate(0, 0, n)), nil
}

// MonthStart returns midnight on the first day of the month in loc.
func MonthStart(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// GridStart returns the Sunday on or before the 1st of the month.
func GridStart(year int, month time.Month, loc *time.Location) time.Time {
	first := MonthStart(year, month, loc)
	return first.AddDate(0, 0, -int(first.Weekday()))
}

// GridRange returns the first and last date keys of the 42-cell month grid.
func GridRange(year int, month time.Month, loc *time.Location) (string, string) {
	start := GridStart(year, month, loc)
	return Key(start), Key(start.AddDate(0, 0, GridCells-1))
}

// Window returns the inclusive [from, to] keys for the n days ending on today.
func Window(today string, n int) (string, string, error) {
	if n <= 0 {
		return "", "", fmt.Errorf("window length must be positive, got %d", n)
	}
	from, err := AddDays(today, -(n - 1))
	if err != nil {
		return "", "", err
	}
	return from, today, nil
}

// InRange reports whether key lies in the inclusive [from, to] range. Date keys
// sort lexically in calendar order, so plain string comparison is enough.
func InRange(key, from, to string) bool {
	return key >= from && key <= to
}
