package planner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// DateRange is an inclusive span of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a date-only range and rejects end < start
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: dateutil.DateOnly(start), End: dateutil.DateOnly(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidRange, dateutil.Key(r.End), dateutil.Key(r.Start))
	}
	return r, nil
}

// Days returns the inclusive number of calendar days
func (r DateRange) Days() int {
	return dateutil.DaysBetween(r.Start, r.End) + 1
}

// Overlaps reports whether the two ranges share at least one day
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

func (r DateRange) String() string {
	return dateutil.Key(r.Start) + ".." + dateutil.Key(r.End)
}

// Analysis is the day breakdown of a date range
type Analysis struct {
	Range        DateRange
	TotalDays    int
	VacationDays int
	WeekendDays  int
	HolidayDays  int
	HolidayNames []string
}

// PlanCandidate is a scored range considered during optimization
type PlanCandidate struct {
	Range            DateRange
	VacationDaysUsed int
	TotalDaysOff     int
	Efficiency       float64
	Analysis         Analysis
}

// OptimizedPlan is one selected vacation period
type OptimizedPlan struct {
	Range        DateRange
	DaysUsed     int
	TotalDaysOff int
	WeekendDays  int
	HolidayDays  int
	HolidayNames []string
	Efficiency   float64
	Description  string
	Note         string
}

// Request holds the optimizer inputs
type Request struct {
	Year          int
	Holidays      *calendar.HolidaySet
	AvailableDays int
	MinDuration   int
	MaxDuration   int
}

// Reason explains the shape of a Result
type Reason string

const (
	ReasonPlansFound   Reason = "plans_found"
	ReasonNoBudget     Reason = "no_budget"
	ReasonNoCandidates Reason = "no_candidates"
)

// Result is the outcome of one optimization run
type Result struct {
	Plans                []OptimizedPlan `json:"plans"`
	Reason               Reason          `json:"reason"`
	HolidayDataAvailable bool            `json:"holidayDataAvailable"`
	CandidatesEvaluated  int             `json:"candidatesEvaluated"`
	DaysUsed             int             `json:"daysUsed"`
	DaysRemaining        int             `json:"daysRemaining"`
}

// Efficiency returns days off per vacation day, counting at least one vacation day
func Efficiency(totalDaysOff, vacationDays int) float64 {
	return float64(totalDaysOff) / float64(max(vacationDays, 1))
}

type analysisJSON struct {
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	TotalDays    int      `json:"totalDays"`
	VacationDays int      `json:"vacationDays"`
	WeekendDays  int      `json:"weekendDays"`
	HolidayDays  int      `json:"holidayDays"`
	HolidayNames []string `json:"holidayNames"`
}

func (a Analysis) MarshalJSON() ([]byte, error) {
	names := a.HolidayNames
	if names == nil {
		names = []string{}
	}
	return json.Marshal(analysisJSON{
		StartDate:    dateutil.Key(a.Range.Start),
		EndDate:      dateutil.Key(a.Range.End),
		TotalDays:    a.TotalDays,
		VacationDays: a.VacationDays,
		WeekendDays:  a.WeekendDays,
		HolidayDays:  a.HolidayDays,
		HolidayNames: names,
	})
}

type planJSON struct {
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	DaysUsed     int      `json:"daysUsed"`
	TotalDaysOff int      `json:"totalDaysOff"`
	WeekendDays  int      `json:"weekendDays"`
	HolidayDays  int      `json:"holidayDays"`
	HolidayNames []string `json:"holidayNames"`
	Efficiency   float64  `json:"efficiency"`
	Description  string   `json:"description"`
	Note         string   `json:"note,omitempty"`
}

func (p OptimizedPlan) MarshalJSON() ([]byte, error) {
	names := p.HolidayNames
	if names == nil {
		names = []string{}
	}
	return json.Marshal(planJSON{
		StartDate:    dateutil.Key(p.Range.Start),
		EndDate:      dateutil.Key(p.Range.End),
		DaysUsed:     p.DaysUsed,
		TotalDaysOff: p.TotalDaysOff,
		WeekendDays:  p.WeekendDays,
		HolidayDays:  p.HolidayDays,
		HolidayNames: names,
		Efficiency:   p.Efficiency,
		Description:  p.Description,
		Note:         p.Note,
	})
}
