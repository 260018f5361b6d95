package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used for keys and wire formats
const DateLayout = "2006-01-02"

// DateOnly reduces t to its calendar date as UTC midnight.
// The wall-clock date of t is kept as-is: a local midnight is never shifted
// into the previous day by a UTC conversion.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a date-only value
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfYear returns January 1st of the given year
func StartOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// EndOfYear returns December 31st of the given year
func EndOfYear(year int) time.Time {
	return Date(year, time.December, 31)
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Both values are reduced to their calendar date first, so DST and zone
// offsets never produce a fractional day.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// Key formats the calendar date of t as YYYY-MM-DD
func Key(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses date string in various formats.
// The result is always a date-only value.
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		DateLayout,
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05-0700",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}

// EachDay calls fn for every date in [from, to], inclusive.
// Iteration stops early when fn returns false.
func EachDay(from, to time.Time, fn func(day time.Time) bool) {
	end := DateOnly(to)
	for day := DateOnly(from); !day.After(end); day = day.AddDate(0, 0, 1) {
		if !fn(day) {
			return
		}
	}
}

// Today returns today's date according to now
func Today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return DateOnly(now())
}
