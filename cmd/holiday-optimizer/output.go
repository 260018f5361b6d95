package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const rule = "═══════════════════════════════════════════════════════"

func printResult(w io.Writer, horizon *calendar.Horizon, result *planner.Result, budget int) {
	fmt.Fprintf(w, "\n📅 Holiday plans for %s, %d-%d (%d vacation days)\n",
		horizon.Country, horizon.Year, horizon.Year+1, budget)
	fmt.Fprintln(w, rule)

	if !result.HolidayDataAvailable {
		fmt.Fprintln(w, "⚠️  No public holiday data available, planning around weekends only")
	} else if len(horizon.FailedYears) > 0 {
		fmt.Fprintf(w, "⚠️  Holiday data missing for %v\n", horizon.FailedYears)
	}

	switch result.Reason {
	case planner.ReasonNoBudget:
		fmt.Fprintln(w, "No vacation days available, nothing to plan.")
		return
	case planner.ReasonNoCandidates:
		fmt.Fprintln(w, "No vacation period fits the budget and duration window.")
		return
	}

	for i, p := range result.Plans {
		fmt.Fprintf(w, "\n%d. %s → %s  (%d days off for %d vacation days, x%.2f)\n",
			i+1,
			p.Range.Start.Format("Mon 02 Jan 2006"),
			p.Range.End.Format("Mon 02 Jan 2006"),
			p.TotalDaysOff,
			p.DaysUsed,
			p.Efficiency)
		fmt.Fprintf(w, "   %s\n", p.Description)
		if p.Note != "" {
			fmt.Fprintf(w, "   💡 %s\n", p.Note)
		}
		fmt.Fprintf(w, "   🔗 %s\n", export.GoogleCalendarLink(p))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Plans:           %d\n", len(result.Plans))
	fmt.Fprintf(w, "  Days used:       %d\n", result.DaysUsed)
	fmt.Fprintf(w, "  Days remaining:  %d\n", result.DaysRemaining)
}

func printAnalysis(w io.Writer, a planner.Analysis, holidayData bool) {
	fmt.Fprintf(w, "\n📊 %s → %s\n",
		a.Range.Start.Format("Mon 02 Jan 2006"),
		a.Range.End.Format("Mon 02 Jan 2006"))
	fmt.Fprintln(w, rule)
	if !holidayData {
		fmt.Fprintln(w, "⚠️  No public holiday data available, holidays are not counted")
	}
	fmt.Fprintf(w, "  Total days:     %d\n", a.TotalDays)
	fmt.Fprintf(w, "  Vacation days:  %d\n", a.VacationDays)
	fmt.Fprintf(w, "  Weekend days:   %d\n", a.WeekendDays)
	fmt.Fprintf(w, "  Holidays:       %d\n", a.HolidayDays)
	if len(a.HolidayNames) > 0 {
		fmt.Fprintf(w, "  Holiday names:  %s\n", strings.Join(a.HolidayNames, ", "))
	}
	if a.VacationDays > 0 {
		fmt.Fprintf(w, "  Efficiency:     x%.2f\n", planner.Efficiency(a.TotalDays, a.VacationDays))
	}
}

func printHolidays(w io.Writer, horizon *calendar.Horizon) {
	fmt.Fprintf(w, "\n🎉 Public holidays for %s, %d-%d\n", horizon.Country, horizon.Year, horizon.Year+1)
	fmt.Fprintln(w, rule)
	if len(horizon.FailedYears) > 0 {
		fmt.Fprintf(w, "⚠️  Holiday data missing for %v\n", horizon.FailedYears)
	}

	for _, h := range horizon.Holidays.Holidays() {
		name := h.LocalName
		if h.Name != "" && h.Name != h.LocalName {
			name += " (" + h.Name + ")"
		}
		fmt.Fprintf(w, "  %s %s  %s\n", dateutil.Key(h.Date), h.Date.Format("Mon"), name)
	}
}

func printMonth(w io.Writer, m *calendar.MonthInfo) {
	fmt.Fprintf(w, "\n📅 %s %d\n", m.Month, m.Year)
	fmt.Fprintln(w, rule)

	for _, day := range m.Days {
		line := fmt.Sprintf("  %s %s  %-8s", dateutil.Key(day.Date), day.Date.Format("Mon"), day.Type)
		if day.Holiday != nil {
			line += "  " + day.Holiday.LocalName
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Workdays: %d  Weekend days: %d  Holidays: %d\n", m.WorkDays, m.Weekends, m.Holidays)
}
