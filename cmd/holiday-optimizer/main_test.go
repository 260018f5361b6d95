package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/config"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

func TestBuildCalendar(t *testing.T) {
	file := filepath.Join(t.TempDir(), "holidays.txt")
	content := "# test data\n2025-01-01 SK Deň vzniku Slovenskej republiky\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write holidays: %v", err)
	}

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name: "builtin",
			cfg:  config.Config{Holidays: config.HolidaysConfig{Source: config.SourceBuiltin}},
		},
		{
			name: "file with builtin fallback",
			cfg:  config.Config{Holidays: config.HolidaysConfig{Source: config.SourceFile, File: file, Fallback: config.SourceBuiltin}},
		},
		{
			name: "nager without cache",
			cfg: config.Config{
				Holidays: config.HolidaysConfig{Source: config.SourceNager, APIURL: "http://127.0.0.1:1"},
				Cache:    config.CacheConfig{Type: config.CacheNone},
			},
		},
		{
			name:    "missing file",
			cfg:     config.Config{Holidays: config.HolidaysConfig{Source: config.SourceFile, File: file + ".missing"}},
			wantErr: true,
		},
		{
			name:    "unknown source",
			cfg:     config.Config{Holidays: config.HolidaysConfig{Source: "isdayoff"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, err := buildCalendar(context.Background(), &tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("buildCalendar() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildCalendar() error = %v", err)
			}
			if cal == nil {
				t.Fatal("buildCalendar() returned nil calendar")
			}
		})
	}
}

func TestBuildCalendar_FileSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(file, []byte("2025-05-01 SK Sviatok práce | Labour Day\n"), 0o644); err != nil {
		t.Fatalf("write holidays: %v", err)
	}

	cfg := config.Config{Holidays: config.HolidaysConfig{Source: config.SourceFile, File: file}}
	cal, err := buildCalendar(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("buildCalendar() error = %v", err)
	}

	holidays, err := cal.Holidays(context.Background(), 2025, "SK")
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(holidays) != 1 || holidays[0].Name != "Labour Day" {
		t.Errorf("Holidays() = %+v", holidays)
	}
}

func TestPrintResult(t *testing.T) {
	horizon := &calendar.Horizon{
		Year:    2025,
		Country: "SK",
		Holidays: calendar.NewHolidaySet(
			calendar.Holiday{Date: dateutil.Date(2025, 1, 1), LocalName: "Nový rok"},
		),
	}
	result := &planner.Result{
		Reason:               planner.ReasonPlansFound,
		HolidayDataAvailable: true,
		DaysUsed:             2,
		DaysRemaining:        3,
		Plans: []planner.OptimizedPlan{{
			Range:        planner.DateRange{Start: dateutil.Date(2025, 1, 1), End: dateutil.Date(2025, 1, 5)},
			DaysUsed:     2,
			TotalDaysOff: 5,
			Efficiency:   2.5,
			Description:  "Take 2 vacation days off.",
			Note:         "Ideal for a cozy winter break",
		}},
	}

	var buf bytes.Buffer
	printResult(&buf, horizon, result, 5)
	out := buf.String()

	for _, want := range []string{
		"Holiday plans for SK, 2025-2026 (5 vacation days)",
		"Wed 01 Jan 2025 → Sun 05 Jan 2025",
		"Take 2 vacation days off.",
		"Ideal for a cozy winter break",
		"https://www.google.com/calendar/render?",
		"Days remaining:  3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No public holiday data") {
		t.Error("output should not warn when holiday data is available")
	}
}

func TestPrintMonth(t *testing.T) {
	set := calendar.NewHolidaySet(calendar.Holiday{Date: dateutil.Date(2025, 5, 1), LocalName: "Sviatok práce"})

	var buf bytes.Buffer
	printMonth(&buf, set.MonthInfo(2025, 5))
	out := buf.String()

	if !strings.Contains(out, "2025-05-01 Thu  holiday   Sviatok práce") {
		t.Errorf("missing holiday line:\n%s", out)
	}
	if !strings.Contains(out, "Workdays: 21  Weekend days: 9  Holidays: 1") {
		t.Errorf("missing totals:\n%s", out)
	}
}
