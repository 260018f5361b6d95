package planner

import (
	"time"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// Analyze counts vacation, weekend and holiday days in r.
// Holiday names are recorded once each, in date order.
// It is used both for user-picked ranges and for optimizer candidates.
func Analyze(r DateRange, holidays *calendar.HolidaySet) (Analysis, error) {
	r, err := NewDateRange(r.Start, r.End)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Range:     r,
		TotalDays: r.Days(),
	}

	var seen map[string]bool
	dateutil.EachDay(r.Start, r.End, func(day time.Time) bool {
		switch calendar.Classify(day, holidays) {
		case calendar.DayTypeHoliday:
			a.HolidayDays++
			h, _ := holidays.Lookup(day)
			name := h.LocalName
			if name == "" {
				name = h.Name
			}
			if name != "" && !seen[name] {
				if seen == nil {
					seen = make(map[string]bool)
				}
				seen[name] = true
				a.HolidayNames = append(a.HolidayNames, name)
			}
		case calendar.DayTypeWeekend:
			a.WeekendDays++
		default:
			a.VacationDays++
		}
		return true
	})

	return a, nil
}
