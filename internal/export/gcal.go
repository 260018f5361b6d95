package export

import (
	"fmt"
	"net/url"

	"github.com/username/holiday-optimizer/internal/planner"
)

const googleCalendarURL = "https://www.google.com/calendar/render"

// compact date layout used by calendar clients for all-day events
const icalDateLayout = "20060102"

// GoogleCalendarLink returns a link that opens a prefilled all-day event.
// The end date in the link is exclusive, one day after the plan ends.
func GoogleCalendarLink(plan planner.OptimizedPlan) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", Summary(plan))
	q.Set("dates", plan.Range.Start.Format(icalDateLayout)+"/"+
		plan.Range.End.AddDate(0, 0, 1).Format(icalDateLayout))
	q.Set("details", Details(plan))

	return googleCalendarURL + "?" + q.Encode()
}

// Summary is the event title of a plan
func Summary(plan planner.OptimizedPlan) string {
	return fmt.Sprintf("Holiday: %d days off", plan.TotalDaysOff)
}

// Details is the event body of a plan
func Details(plan planner.OptimizedPlan) string {
	details := fmt.Sprintf("Optimized holiday plan. Days used: %d. Total days off: %d.\n%s",
		plan.DaysUsed, plan.TotalDaysOff, plan.Description)
	if plan.Note != "" {
		details += "\n" + plan.Note
	}
	return details
}
