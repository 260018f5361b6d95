package calendar

import (
	"context"
	"time"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

// String returns the lower-case name of the day type
func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	default:
		return "unknown"
	}
}

// Holiday is a public holiday of one country.
// Date is always a date-only value (UTC midnight).
type Holiday struct {
	Date        time.Time
	LocalName   string
	Name        string
	CountryCode string
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date    time.Time
	Type    DayType
	Holiday *Holiday
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	Days     []DayInfo
}

// Calendar is a source of public holidays
type Calendar interface {
	// Holidays returns the public holidays of a country for the given year
	Holidays(ctx context.Context, year int, country string) ([]Holiday, error)
}
