package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/at"
	"github.com/rickar/cal/v2/cz"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/pl"
	"github.com/rickar/cal/v2/sk"
	"github.com/rickar/cal/v2/us"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

var builtinHolidays = map[string][]*cal.Holiday{
	"AT": at.Holidays,
	"CZ": cz.Holidays,
	"DE": de.Holidays,
	"ES": es.Holidays,
	"FR": fr.Holidays,
	"GB": gb.Holidays,
	"IT": it.Holidays,
	"NL": nl.Holidays,
	"PL": pl.Holidays,
	"SK": sk.Holidays,
	"US": us.Holidays,
}

// BuiltinCalendar implements Calendar from the tables compiled into rickar/cal.
// It needs no network and serves as the offline fallback.
type BuiltinCalendar struct{}

// NewBuiltinCalendar creates a new BuiltinCalendar
func NewBuiltinCalendar() *BuiltinCalendar {
	return &BuiltinCalendar{}
}

// Countries returns the supported country codes, sorted
func (bc *BuiltinCalendar) Countries() []string {
	codes := make([]string, 0, len(builtinHolidays))
	for code := range builtinHolidays {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Holidays returns the holidays on their actual (not observed) dates
func (bc *BuiltinCalendar) Holidays(_ context.Context, year int, country string) ([]Holiday, error) {
	country = strings.ToUpper(strings.TrimSpace(country))

	defs, ok := builtinHolidays[country]
	if !ok {
		return nil, fmt.Errorf("no built-in holiday table for country %q (supported: %s)",
			country, strings.Join(bc.Countries(), ", "))
	}

	holidays := make([]Holiday, 0, len(defs))
	for _, def := range defs {
		actual, _ := def.Calc(year)
		if actual.IsZero() {
			// Not observed in this year
			continue
		}
		holidays = append(holidays, Holiday{
			Date:        dateutil.DateOnly(actual),
			LocalName:   def.Name,
			Name:        def.Name,
			CountryCode: country,
		})
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays, nil
}
