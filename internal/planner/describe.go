package planner

import (
	"fmt"
	"strings"
	"time"
)

// Season is the meteorological season of a month (northern hemisphere)
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Autumn
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	default:
		return "winter"
	}
}

// SeasonOf maps Dec-Feb to winter, Mar-May to spring, Jun-Aug to summer and
// Sep-Nov to autumn
func SeasonOf(month time.Month) Season {
	switch month {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}

var seasonNotes = map[Season]string{
	Winter: "Ideal for a cozy winter break",
	Spring: "Ideal for a spring city break",
	Summer: "Perfect for a summer getaway",
	Autumn: "Enjoy the autumn colors",
}

var longWeekendNotes = map[Season]string{
	Winter: "Great for a long weekend ski trip",
	Spring: "Great for a long spring weekend away",
	Summer: "Great for a long summer weekend by the water",
	Autumn: "Great for a long autumn weekend hike",
}

// Note returns the thematic note for a plan starting on start
func Note(start time.Time, totalDaysOff int) string {
	season := SeasonOf(start.Month())
	if totalDaysOff <= 4 {
		return longWeekendNotes[season]
	}
	return seasonNotes[season]
}

// Describe builds the human-readable rationale of a plan
func Describe(a Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Take %s off from %s to %s for %s in a row",
		plural(a.VacationDays, "vacation day"),
		formatDay(a.Range.Start, a.Range.Start.Year() != a.Range.End.Year()),
		formatDay(a.Range.End, true),
		plural(a.TotalDays, "day"))

	var extras []string
	if a.WeekendDays > 0 {
		extras = append(extras, plural(a.WeekendDays, "weekend day"))
	}
	if a.HolidayDays > 0 {
		holidays := plural(a.HolidayDays, "public holiday")
		if len(a.HolidayNames) > 0 {
			holidays += " (" + strings.Join(a.HolidayNames, ", ") + ")"
		}
		extras = append(extras, holidays)
	}
	if len(extras) > 0 {
		b.WriteString(", including ")
		b.WriteString(strings.Join(extras, " and "))
	}
	b.WriteString(".")

	return b.String()
}

func formatDay(t time.Time, withYear bool) string {
	if withYear {
		return t.Format("Mon 2 Jan 2006")
	}
	return t.Format("Mon 2 Jan")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
