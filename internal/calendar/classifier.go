package calendar

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// HolidaySet is a read-only-after-build set of holidays keyed by calendar date.
// The zero value and a nil *HolidaySet are both valid empty sets.
type HolidaySet struct {
	byDate map[string]Holiday
}

// NewHolidaySet builds a set from holidays; duplicate dates keep the first entry
func NewHolidaySet(holidays ...Holiday) *HolidaySet {
	s := &HolidaySet{byDate: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		s.Add(h)
	}
	return s
}

// Add inserts a holiday and reports whether its date was new
func (s *HolidaySet) Add(h Holiday) bool {
	if s.byDate == nil {
		s.byDate = make(map[string]Holiday)
	}

	key := dateutil.Key(h.Date)
	if _, exists := s.byDate[key]; exists {
		return false
	}

	h.Date = dateutil.DateOnly(h.Date)
	s.byDate[key] = h
	return true
}

// Lookup returns the holiday on the calendar date of t
func (s *HolidaySet) Lookup(t time.Time) (Holiday, bool) {
	if s == nil || len(s.byDate) == 0 {
		return Holiday{}, false
	}
	h, ok := s.byDate[dateutil.Key(t)]
	return h, ok
}

// Contains reports whether the calendar date of t is a holiday
func (s *HolidaySet) Contains(t time.Time) bool {
	_, ok := s.Lookup(t)
	return ok
}

// Len returns the number of distinct holiday dates
func (s *HolidaySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byDate)
}

// Holidays returns all holidays sorted by date
func (s *HolidaySet) Holidays() []Holiday {
	if s == nil {
		return nil
	}

	holidays := make([]Holiday, 0, len(s.byDate))
	for _, h := range s.byDate {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// Classify determines whether date is a workday, a weekend day or a holiday.
// A holiday falling on a weekend is reported as DayTypeHoliday.
func Classify(date time.Time, holidays *HolidaySet) DayType {
	if holidays.Contains(date) {
		return DayTypeHoliday
	}
	if dateutil.IsWeekend(date) {
		return DayTypeWeekend
	}
	return DayTypeWorkday
}

// MonthInfo returns a per-day breakdown of the month
func (s *HolidaySet) MonthInfo(year int, month time.Month) *MonthInfo {
	first := dateutil.Date(year, month, 1)
	last := first.AddDate(0, 1, -1)

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, last.Day()),
	}

	dateutil.EachDay(first, last, func(day time.Time) bool {
		info := DayInfo{
			Date: day,
			Type: Classify(day, s),
		}

		switch info.Type {
		case DayTypeHoliday:
			h, _ := s.Lookup(day)
			info.Holiday = &h
			monthInfo.Holidays++
		case DayTypeWeekend:
			monthInfo.Weekends++
		default:
			monthInfo.WorkDays++
		}

		monthInfo.Days = append(monthInfo.Days, info)
		return true
	})

	return monthInfo
}

type holidayJSON struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// MarshalJSON writes the date as YYYY-MM-DD
func (h Holiday) MarshalJSON() ([]byte, error) {
	return json.Marshal(holidayJSON{
		Date:        dateutil.Key(h.Date),
		LocalName:   h.LocalName,
		Name:        h.Name,
		CountryCode: h.CountryCode,
	})
}

// UnmarshalJSON reads the date as a date-only value, never as a UTC timestamp
func (h *Holiday) UnmarshalJSON(b []byte) error {
	var raw holidayJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	date, err := time.Parse(dateutil.DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("invalid holiday date %q: %w", raw.Date, err)
	}

	*h = Holiday{
		Date:        date,
		LocalName:   raw.LocalName,
		Name:        raw.Name,
		CountryCode: raw.CountryCode,
	}
	return nil
}
