package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const nagerSK2025 = `[
  {"date":"2025-01-01","localName":"Deň vzniku Slovenskej republiky","name":"Day of the Establishment of the Slovak Republic","countryCode":"SK","fixed":true,"global":true,"counties":null,"launchYear":null,"types":["Public"]},
  {"date":"2025-05-01","localName":"Sviatok práce","name":"Labour Day","countryCode":"SK","fixed":true,"global":true,"counties":null,"launchYear":null,"types":["Public"]}
]`

func TestNagerCalendar_Holidays(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/PublicHolidays/2025/SK":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, nagerSK2025)
		case "/PublicHolidays/2025/XX":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}
	}))
	defer srv.Close()

	cache := NewMemoryCache()
	nc := NewNagerCalendar(srv.URL, time.Second, cache, time.Hour, zap.NewNop())

	holidays, err := nc.Holidays(context.Background(), 2025, "sk")
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("Holidays() returned %d entries, want 2", len(holidays))
	}
	if !holidays[1].Date.Equal(dateutil.Date(2025, 5, 1)) || holidays[1].LocalName != "Sviatok práce" {
		t.Errorf("second holiday = %+v", holidays[1])
	}

	// Second call is served from cache
	if _, err := nc.Holidays(context.Background(), 2025, "SK"); err != nil {
		t.Fatalf("cached Holidays() error = %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("API requests = %d, want 1", got)
	}

	empty, err := nc.Holidays(context.Background(), 2025, "XX")
	if err != nil {
		t.Fatalf("Holidays() for unknown country error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Holidays() for unknown country = %v, want empty", empty)
	}

	if _, err := nc.Holidays(context.Background(), 2030, "SK"); err == nil {
		t.Error("Holidays() expected error for status 500")
	}

	if _, err := nc.Holidays(context.Background(), 2025, ""); err == nil {
		t.Error("Holidays() expected error for empty country")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if data, ok, _ := cache.Get(ctx, "k"); !ok || string(data) != "v" {
		t.Errorf("Get() = %q, %v; want hit", data, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestBuiltinCalendar_Holidays(t *testing.T) {
	bc := NewBuiltinCalendar()

	holidays, err := bc.Holidays(context.Background(), 2025, "de")
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	set := NewHolidaySet(holidays...)
	for _, date := range []time.Time{
		dateutil.Date(2025, 1, 1),   // Neujahr
		dateutil.Date(2025, 4, 18),  // Karfreitag
		dateutil.Date(2025, 5, 1),   // Tag der Arbeit
		dateutil.Date(2025, 10, 3),  // Tag der Deutschen Einheit
		dateutil.Date(2025, 12, 25), // Weihnachten
	} {
		if !set.Contains(date) {
			t.Errorf("built-in DE holidays missing %s", dateutil.Key(date))
		}
	}

	for i := 1; i < len(holidays); i++ {
		if holidays[i].Date.Before(holidays[i-1].Date) {
			t.Errorf("holidays not sorted at index %d", i)
		}
	}

	_, err = bc.Holidays(context.Background(), 2025, "ZZ")
	if err == nil {
		t.Fatal("Holidays() expected error for unsupported country")
	}
	if !strings.Contains(err.Error(), "SK") || !strings.Contains(err.Error(), "DE") {
		t.Errorf("error should list supported countries: %v", err)
	}
}

func TestFileCalendar_Holidays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := `# Slovak holidays
2025-01-01 SK Deň vzniku Slovenskej republiky | Republic Day
2025-05-01 SK Sviatok práce
not-a-date SK broken
2025-05-08
2026-01-01 SK Deň vzniku Slovenskej republiky
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc := NewFileCalendar(path, zap.NewNop())

	holidays, err := fc.Holidays(context.Background(), 2025, "sk")
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("Holidays() = %d entries, want 2", len(holidays))
	}
	if holidays[0].LocalName != "Deň vzniku Slovenskej republiky" || holidays[0].Name != "Republic Day" {
		t.Errorf("first holiday names = %q / %q", holidays[0].LocalName, holidays[0].Name)
	}
	if holidays[1].Name != "Sviatok práce" {
		t.Errorf("Name should default to local name, got %q", holidays[1].Name)
	}

	if _, err := fc.Holidays(context.Background(), 2027, "SK"); err == nil {
		t.Error("Holidays() expected error for a year missing from the file")
	}

	missing := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	if _, err := missing.Holidays(context.Background(), 2025, "SK"); err == nil {
		t.Error("Holidays() expected error for a missing file")
	}
}

type stubCalendar struct {
	holidays map[int][]Holiday
	err      error
	calls    atomic.Int32
}

func (s *stubCalendar) Holidays(_ context.Context, year int, _ string) ([]Holiday, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.holidays[year], nil
}

func TestCompositeCalendar_Holidays(t *testing.T) {
	primaryData := map[int][]Holiday{2025: {{Date: dateutil.Date(2025, 1, 1), LocalName: "primary"}}}
	fallbackData := map[int][]Holiday{
		2025: {{Date: dateutil.Date(2025, 1, 1), LocalName: "fallback"}},
		2026: {{Date: dateutil.Date(2026, 1, 1), LocalName: "fallback"}},
	}

	tests := []struct {
		name         string
		primary      *stubCalendar
		fallback     *stubCalendar
		year         int
		wantName     string
		wantCount    int
		wantErr      bool
		wantFallback bool
	}{
		{"primary answers", &stubCalendar{holidays: primaryData}, &stubCalendar{holidays: fallbackData}, 2025, "primary", 1, false, false},
		{"primary empty", &stubCalendar{holidays: primaryData}, &stubCalendar{holidays: fallbackData}, 2026, "fallback", 1, false, true},
		{"primary fails", &stubCalendar{err: errors.New("down")}, &stubCalendar{holidays: fallbackData}, 2025, "fallback", 1, false, true},
		{"both fail", &stubCalendar{err: errors.New("down")}, &stubCalendar{err: errors.New("no file")}, 2025, "", 0, true, true},
		{"primary empty, fallback fails", &stubCalendar{holidays: primaryData}, &stubCalendar{err: errors.New("no file")}, 2026, "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCompositeCalendar(tt.primary, tt.fallback, zap.NewNop())

			holidays, err := cc.Holidays(context.Background(), tt.year, "SK")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Holidays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(holidays) != tt.wantCount {
				t.Fatalf("Holidays() = %d entries, want %d", len(holidays), tt.wantCount)
			}
			if tt.wantCount > 0 && holidays[0].LocalName != tt.wantName {
				t.Errorf("served by %q, want %q", holidays[0].LocalName, tt.wantName)
			}
			if called := tt.fallback.calls.Load() > 0; called != tt.wantFallback {
				t.Errorf("fallback called = %v, want %v", called, tt.wantFallback)
			}
		})
	}
}

func TestLoadHorizon(t *testing.T) {
	src := &stubCalendar{holidays: map[int][]Holiday{
		2025: {
			{Date: dateutil.Date(2025, 1, 1), LocalName: "Nový rok"},
			{Date: dateutil.Date(2025, 5, 1), LocalName: "Sviatok práce"},
		},
		2026: {
			{Date: dateutil.Date(2026, 1, 1), LocalName: "Nový rok"},
		},
	}}

	horizon := LoadHorizon(context.Background(), src, 2025, "SK", zap.NewNop())

	if horizon.Holidays.Len() != 3 {
		t.Errorf("horizon holidays = %d, want 3", horizon.Holidays.Len())
	}
	if !horizon.Available() {
		t.Error("Available() = false")
	}
	if len(horizon.FailedYears) != 0 {
		t.Errorf("FailedYears = %v, want none", horizon.FailedYears)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls = %d, want 2", got)
	}
}

func TestLoadHorizon_DegradesOnFailure(t *testing.T) {
	src := &stubCalendar{err: errors.New("network unreachable")}

	horizon := LoadHorizon(context.Background(), src, 2025, "SK", zap.NewNop())

	if horizon.Available() {
		t.Error("Available() = true for a failed source")
	}
	if len(horizon.FailedYears) != 2 || horizon.FailedYears[0] != 2025 || horizon.FailedYears[1] != 2026 {
		t.Errorf("FailedYears = %v, want [2025 2026]", horizon.FailedYears)
	}
}

// splitCalendar fails one year at once and answers the other only after a
// delay, reporting a cancelled context as an error.
type splitCalendar struct {
	failYear int
	delay    time.Duration
}

func (s splitCalendar) Holidays(ctx context.Context, year int, _ string) ([]Holiday, error) {
	if year == s.failYear {
		return nil, errors.New("year not published")
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Holiday{{Date: dateutil.Date(year, 1, 1), LocalName: "Nový rok"}}, nil
}

func TestLoadHorizon_FailedYearDoesNotCancelOther(t *testing.T) {
	src := splitCalendar{failYear: 2026, delay: 50 * time.Millisecond}

	horizon := LoadHorizon(context.Background(), src, 2025, "SK", zap.NewNop())

	if !horizon.Holidays.Contains(dateutil.Date(2025, 1, 1)) {
		t.Error("2025 holidays missing after the 2026 fetch failed")
	}
	if len(horizon.FailedYears) != 1 || horizon.FailedYears[0] != 2026 {
		t.Errorf("FailedYears = %v, want [2026]", horizon.FailedYears)
	}
}
