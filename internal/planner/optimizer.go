package planner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const (
	minYear = 1
	maxYear = 9998 // the horizon reaches into Year+1
)

// Optimizer turns a holiday set and a vacation budget into a set of plans
type Optimizer struct {
	workers int
	logger  *zap.Logger
}

// NewOptimizer creates an Optimizer; workers <= 0 means GOMAXPROCS
func NewOptimizer(workers int, logger *zap.Logger) *Optimizer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		workers: workers,
		logger:  logger,
	}
}

// Validate checks the request before any work is done
func (r Request) Validate() error {
	if r.Year < minYear || r.Year > maxYear {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidConfiguration, r.Year)
	}
	if r.AvailableDays < 0 {
		return fmt.Errorf("%w: available days must not be negative, got %d", ErrInvalidConfiguration, r.AvailableDays)
	}
	if r.MinDuration < 1 {
		return fmt.Errorf("%w: minimum duration must be at least 1, got %d", ErrInvalidConfiguration, r.MinDuration)
	}
	if r.MaxDuration < r.MinDuration {
		return fmt.Errorf("%w: minimum duration %d exceeds maximum duration %d",
			ErrInvalidConfiguration, r.MinDuration, r.MaxDuration)
	}
	return nil
}

// Optimize finds non-overlapping vacation ranges within Year and Year+1.
//
// Every range of MinDuration..MaxDuration days inside the horizon is scored
// with Analyze. Ranges that need no vacation day or more than the budget are
// dropped; the rest go through Select. Plans come back ordered by start date.
// An empty holiday set is not an error: weekends alone still produce plans.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Plans:                []OptimizedPlan{},
		HolidayDataAvailable: req.Holidays.Len() > 0,
		DaysRemaining:        req.AvailableDays,
	}

	if req.AvailableDays == 0 {
		result.Reason = ReasonNoBudget
		o.logger.Info("No vacation budget, nothing to plan", zap.Int("year", req.Year))
		return result, nil
	}

	started := time.Now()

	candidates, evaluated, err := o.generateCandidates(ctx, req)
	if err != nil {
		return nil, err
	}
	result.CandidatesEvaluated = evaluated

	o.logger.Debug("Candidates scored",
		zap.Int("evaluated", evaluated),
		zap.Int("viable", len(candidates)))

	accepted := Select(candidates, req.AvailableDays)
	if len(accepted) == 0 {
		result.Reason = ReasonNoCandidates
		o.logger.Info("No viable vacation ranges found",
			zap.Int("year", req.Year),
			zap.Int("available_days", req.AvailableDays))
		return result, nil
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Range.Start.Before(accepted[j].Range.Start)
	})

	for _, c := range accepted {
		result.Plans = append(result.Plans, toPlan(c))
		result.DaysUsed += c.VacationDaysUsed
	}
	result.DaysRemaining = req.AvailableDays - result.DaysUsed
	result.Reason = ReasonPlansFound

	o.logger.Info("Holiday plans optimized",
		zap.Int("year", req.Year),
		zap.Int("plans", len(result.Plans)),
		zap.Int("days_used", result.DaysUsed),
		zap.Int("days_remaining", result.DaysRemaining),
		zap.Bool("holiday_data", result.HolidayDataAvailable),
		zap.Duration("took", time.Since(started)))

	return result, nil
}

// generateCandidates scores every (start, length) pair of the horizon.
// Start dates are split into contiguous chunks, one goroutine each; chunk
// results are concatenated in order so the output does not depend on
// scheduling.
func (o *Optimizer) generateCandidates(ctx context.Context, req Request) ([]PlanCandidate, int, error) {
	horizonStart := dateutil.StartOfYear(req.Year)
	horizonEnd := dateutil.EndOfYear(req.Year + 1)
	days := dateutil.DaysBetween(horizonStart, horizonEnd) + 1

	workers := min(o.workers, days)
	chunkSize := (days + workers - 1) / workers
	chunks := make([][]PlanCandidate, workers)
	evaluated := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		from := w * chunkSize
		to := min(from+chunkSize, days)
		if from >= to {
			continue
		}

		g.Go(func() error {
			for offset := from; offset < to; offset++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				start := horizonStart.AddDate(0, 0, offset)
				for length := req.MinDuration; length <= req.MaxDuration; length++ {
					end := start.AddDate(0, 0, length-1)
					if end.After(horizonEnd) {
						break
					}

					evaluated[w]++
					c, ok := scoreCandidate(DateRange{Start: start, End: end}, req)
					if ok {
						chunks[w] = append(chunks[w], c)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("candidate generation interrupted: %w", err)
	}

	var (
		candidates []PlanCandidate
		total      int
	)
	for w := range chunks {
		candidates = append(candidates, chunks[w]...)
		total += evaluated[w]
	}

	return candidates, total, nil
}

// scoreCandidate analyzes r and reports whether it is worth considering
func scoreCandidate(r DateRange, req Request) (PlanCandidate, bool) {
	a, err := Analyze(r, req.Holidays)
	if err != nil {
		return PlanCandidate{}, false
	}
	if a.VacationDays == 0 || a.VacationDays > req.AvailableDays {
		return PlanCandidate{}, false
	}

	return PlanCandidate{
		Range:            a.Range,
		VacationDaysUsed: a.VacationDays,
		TotalDaysOff:     a.TotalDays,
		Efficiency:       Efficiency(a.TotalDays, a.VacationDays),
		Analysis:         a,
	}, true
}

func toPlan(c PlanCandidate) OptimizedPlan {
	return OptimizedPlan{
		Range:        c.Range,
		DaysUsed:     c.VacationDaysUsed,
		TotalDaysOff: c.TotalDaysOff,
		WeekendDays:  c.Analysis.WeekendDays,
		HolidayDays:  c.Analysis.HolidayDays,
		HolidayNames: c.Analysis.HolidayNames,
		Efficiency:   c.Efficiency,
		Description:  Describe(c.Analysis),
		Note:         Note(c.Range.Start, c.TotalDaysOff),
	}
}
