package planner

import (
	"testing"
	"time"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

func candidate(start, end time.Time, vacation, total int) PlanCandidate {
	return PlanCandidate{
		Range:            DateRange{Start: start, End: end},
		VacationDaysUsed: vacation,
		TotalDaysOff:     total,
		Efficiency:       Efficiency(total, vacation),
	}
}

func TestRank(t *testing.T) {
	a := candidate(dateutil.Date(2025, 6, 2), dateutil.Date(2025, 6, 6), 5, 5)   // 1.0
	b := candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 5), 2, 5)   // 2.5
	c := candidate(dateutil.Date(2025, 4, 30), dateutil.Date(2025, 5, 4), 2, 5)  // 2.5, later
	d := candidate(dateutil.Date(2025, 3, 1), dateutil.Date(2025, 3, 10), 4, 10) // 2.5, longer

	got := []PlanCandidate{a, b, c, d}
	Rank(got)

	want := []time.Time{d.Range.Start, b.Range.Start, c.Range.Start, a.Range.Start}
	for i := range want {
		if !got[i].Range.Start.Equal(want[i]) {
			t.Errorf("rank %d starts %s, want %s", i, dateutil.Key(got[i].Range.Start), dateutil.Key(want[i]))
		}
	}
}

func TestRank_ExactEfficiency(t *testing.T) {
	// 10/3 is not exact as a float; ties still fall through to start date
	x := candidate(dateutil.Date(2025, 2, 1), dateutil.Date(2025, 2, 10), 3, 10)
	y := candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 10), 3, 10)

	got := []PlanCandidate{x, y}
	Rank(got)
	if !got[0].Range.Start.Equal(y.Range.Start) {
		t.Errorf("equal candidates should be ordered by start, got %s first", got[0].Range)
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		candidates []PlanCandidate
		budget     int
		want       []string
	}{
		{
			name: "skips candidate over remaining budget",
			candidates: []PlanCandidate{
				candidate(dateutil.Date(2025, 6, 2), dateutil.Date(2025, 6, 6), 5, 5),
				candidate(dateutil.Date(2025, 4, 28), dateutil.Date(2025, 5, 2), 4, 5),
			},
			budget: 5,
			want:   []string{"2025-04-28..2025-05-02"},
		},
		{
			name: "skips overlapping lower ranked candidate",
			candidates: []PlanCandidate{
				candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 5), 2, 5),
				candidate(dateutil.Date(2025, 1, 3), dateutil.Date(2025, 1, 7), 3, 5),
				candidate(dateutil.Date(2025, 1, 8), dateutil.Date(2025, 1, 12), 3, 5),
			},
			budget: 10,
			want:   []string{"2025-01-01..2025-01-05", "2025-01-08..2025-01-12"},
		},
		{
			name: "stops at exhausted budget",
			candidates: []PlanCandidate{
				candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 5), 2, 5),
				candidate(dateutil.Date(2025, 2, 1), dateutil.Date(2025, 2, 5), 2, 5),
				candidate(dateutil.Date(2025, 3, 1), dateutil.Date(2025, 3, 5), 2, 5),
			},
			budget: 4,
			want:   []string{"2025-01-01..2025-01-05", "2025-02-01..2025-02-05"},
		},
		{
			name: "zero budget",
			candidates: []PlanCandidate{
				candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 5), 2, 5),
			},
			budget: 0,
		},
		{
			name:   "no candidates",
			budget: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.candidates, tt.budget)
			if len(got) != len(tt.want) {
				t.Fatalf("Select() returned %d candidates, want %d: %v", len(got), len(tt.want), got)
			}
			for i, c := range got {
				if c.Range.String() != tt.want[i] {
					t.Errorf("Select()[%d] = %s, want %s", i, c.Range, tt.want[i])
				}
			}
		})
	}
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	in := []PlanCandidate{
		candidate(dateutil.Date(2025, 6, 2), dateutil.Date(2025, 6, 6), 5, 5),
		candidate(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 5), 2, 5),
	}
	Select(in, 10)

	if !in[0].Range.Start.Equal(dateutil.Date(2025, 6, 2)) {
		t.Errorf("Select() reordered its input")
	}
}
