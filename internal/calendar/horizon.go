package calendar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Horizon is the holiday data for a planning year and the year after it
type Horizon struct {
	Year        int
	Country     string
	Holidays    *HolidaySet
	FailedYears []int
}

// Available reports whether any holiday data was loaded
func (h *Horizon) Available() bool {
	return h.Holidays.Len() > 0
}

// LoadHorizon fetches holidays for year and year+1 concurrently.
// Source failures are logged and leave that year empty: callers always get a
// usable (possibly empty) set and degrade to weekend-only planning.
func LoadHorizon(ctx context.Context, cal Calendar, year int, country string, logger *zap.Logger) *Horizon {
	years := []int{year, year + 1}
	results := make([][]Holiday, len(years))
	errs := make([]error, len(years))

	// No derived context: a failed year must not cancel the other fetch,
	// so errors are kept per year instead of returned to the group.
	var g errgroup.Group
	for i, y := range years {
		g.Go(func() error {
			holidays, err := cal.Holidays(ctx, y, country)
			if err != nil {
				errs[i] = fmt.Errorf("year %d: %w", y, err)
				return nil
			}
			results[i] = holidays
			return nil
		})
	}
	_ = g.Wait()

	var failed []int
	for i, err := range errs {
		if err != nil {
			failed = append(failed, years[i])
		}
	}
	if len(failed) > 0 {
		logger.Warn("Holiday data unavailable",
			zap.String("country", country),
			zap.Ints("years", failed),
			zap.Error(errors.Join(errs...)))
	}

	set := NewHolidaySet()
	for _, holidays := range results {
		for _, h := range holidays {
			set.Add(h)
		}
	}

	logger.Info("Holiday horizon loaded",
		zap.Int("year", year),
		zap.String("country", country),
		zap.Int("holidays", set.Len()),
		zap.Ints("failed_years", failed))

	return &Horizon{
		Year:        year,
		Country:     country,
		Holidays:    set,
		FailedYears: failed,
	}
}
