package planner

import "sort"

// Rank orders candidates best first: higher efficiency, then more days off,
// then earlier start. Efficiency is compared exactly by cross-multiplying
// instead of comparing floats.
func Rank(candidates []PlanCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return better(candidates[i], candidates[j])
	})
}

func better(a, b PlanCandidate) bool {
	lhs := a.TotalDaysOff * max(b.VacationDaysUsed, 1)
	rhs := b.TotalDaysOff * max(a.VacationDaysUsed, 1)
	if lhs != rhs {
		return lhs > rhs
	}
	if a.TotalDaysOff != b.TotalDaysOff {
		return a.TotalDaysOff > b.TotalDaysOff
	}
	if !a.Range.Start.Equal(b.Range.Start) {
		return a.Range.Start.Before(b.Range.Start)
	}
	return a.Range.End.Before(b.Range.End)
}

// Select greedily picks non-overlapping candidates in rank order until the
// budget is spent. A candidate is skipped when it overlaps an accepted range
// or needs more vacation days than remain. The input slice is not modified.
//
// This approximates weighted interval scheduling under a budget; it does not
// guarantee the optimal total.
func Select(candidates []PlanCandidate, budget int) []PlanCandidate {
	if budget <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]PlanCandidate, len(candidates))
	copy(ranked, candidates)
	Rank(ranked)

	remaining := budget
	var accepted []PlanCandidate

	for _, c := range ranked {
		if remaining == 0 {
			break
		}
		if c.VacationDaysUsed > remaining {
			continue
		}
		if overlapsAny(c.Range, accepted) {
			continue
		}

		accepted = append(accepted, c)
		remaining -= c.VacationDaysUsed
	}

	return accepted
}

func overlapsAny(r DateRange, accepted []PlanCandidate) bool {
	for _, a := range accepted {
		if r.Overlaps(a.Range) {
			return true
		}
	}
	return false
}
