package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar with fallback strategy
// Primary: usually NagerCalendar (API)
// Fallback: BuiltinCalendar or FileCalendar (offline)
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays asks the primary first; an error or an empty answer falls through
// to the fallback
func (cc *CompositeCalendar) Holidays(ctx context.Context, year int, country string) ([]Holiday, error) {
	holidays, err := cc.primary.Holidays(ctx, year, country)
	if err == nil && len(holidays) > 0 {
		return holidays, nil
	}

	if err != nil {
		cc.logger.Warn("Primary calendar failed, falling back",
			zap.Int("year", year),
			zap.String("country", country),
			zap.Error(err))
	} else {
		cc.logger.Info("Primary calendar returned no holidays, falling back",
			zap.Int("year", year),
			zap.String("country", country))
	}

	fallbackHolidays, fallbackErr := cc.fallback.Holidays(ctx, year, country)
	if fallbackErr != nil {
		if err != nil {
			return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
		}
		// Primary answered "none"; that answer stands
		return holidays, nil
	}

	return fallbackHolidays, nil
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
