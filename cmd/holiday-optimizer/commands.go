package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/config"
	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/internal/server"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// planFlags override the planner section of the config
type planFlags struct {
	year    int
	days    int
	min     int
	max     int
	country string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "Planning year (default: planner.year or the current year)")
	cmd.Flags().IntVar(&f.days, "days", 0, "Available vacation days (default: planner.available_days)")
	cmd.Flags().IntVar(&f.min, "min", 0, "Minimum break length in days (default: planner.min_duration)")
	cmd.Flags().IntVar(&f.max, "max", 0, "Maximum break length in days (default: planner.max_duration)")
	cmd.Flags().StringVar(&f.country, "country", "", "Country code (default: holidays.country)")
}

func (f *planFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("year") {
		cfg.Planner.Year = f.year
	}
	if cmd.Flags().Changed("days") {
		cfg.Planner.AvailableDays = f.days
	}
	if cmd.Flags().Changed("min") {
		cfg.Planner.MinDuration = f.min
	}
	if cmd.Flags().Changed("max") {
		cfg.Planner.MaxDuration = f.max
	}
	if f.country != "" {
		cfg.Holidays.Country = strings.ToUpper(f.country)
	}
}

// runPlan loads the holiday horizon and runs the optimizer
func runPlan(ctx context.Context, cfg *config.Config) (*calendar.Horizon, *planner.Result, error) {
	cal, err := buildCalendar(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	year := cfg.Planner.PlanningYear(time.Now())
	horizon := calendar.LoadHorizon(ctx, cal, year, cfg.Holidays.Country, logger)

	optimizer := planner.NewOptimizer(cfg.Planner.Workers, logger)
	result, err := optimizer.Optimize(ctx, planner.Request{
		Year:          year,
		Holidays:      horizon.Holidays,
		AvailableDays: cfg.Planner.AvailableDays,
		MinDuration:   cfg.Planner.MinDuration,
		MaxDuration:   cfg.Planner.MaxDuration,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("optimization failed: %w", err)
	}

	return horizon, result, nil
}

func optimizeCmd() *cobra.Command {
	var flags planFlags
	var format string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest vacation periods for the planning year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			horizon, result, err := runPlan(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), result)
			case "text":
				printResult(cmd.OutOrStdout(), horizon, result, cfg.Planner.AvailableDays)
				return nil
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func analyzeCmd() *cobra.Command {
	var from, to, country, format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Break down a date range into vacation, weekend and holiday days",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := dateutil.ParseDate(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := dateutil.ParseDate(to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			r, err := planner.NewDateRange(start, end)
			if err != nil {
				return err
			}
			if r.End.Year() > r.Start.Year()+1 {
				return fmt.Errorf("%w: range may span at most two calendar years", planner.ErrInvalidRange)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if country != "" {
				cfg.Holidays.Country = strings.ToUpper(country)
			}

			cal, err := buildCalendar(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			horizon := calendar.LoadHorizon(cmd.Context(), cal, r.Start.Year(), cfg.Holidays.Country, logger)

			analysis, err := planner.Analyze(r, horizon.Holidays)
			if err != nil {
				return err
			}

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis, horizon.Available())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&country, "country", "", "Country code (default: holidays.country)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int
	var country, format string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays of the planning year and the year after",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if country != "" {
				cfg.Holidays.Country = strings.ToUpper(country)
			}
			if cmd.Flags().Changed("year") {
				cfg.Planner.Year = year
			}

			cal, err := buildCalendar(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			horizon := calendar.LoadHorizon(cmd.Context(), cal,
				cfg.Planner.PlanningYear(time.Now()), cfg.Holidays.Country, logger)

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), horizon.Holidays.Holidays())
			}
			printHolidays(cmd.OutOrStdout(), horizon)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "First year (default: planner.year or the current year)")
	cmd.Flags().StringVar(&country, "country", "", "Country code (default: holidays.country)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func calendarCmd() *cobra.Command {
	var month, country string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show how every day of a month is classified",
		RunE: func(cmd *cobra.Command, args []string) error {
			first := dateutil.Today(nil)
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month, expected YYYY-MM: %w", err)
				}
				first = parsed
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if country != "" {
				cfg.Holidays.Country = strings.ToUpper(country)
			}

			cal, err := buildCalendar(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			horizon := calendar.LoadHorizon(cmd.Context(), cal, first.Year(), cfg.Holidays.Country, logger)

			printMonth(cmd.OutOrStdout(), horizon.Holidays.MonthInfo(first.Year(), first.Month()))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default: current month)")
	cmd.Flags().StringVar(&country, "country", "", "Country code (default: holidays.country)")

	return cmd
}

func exportCmd() *cobra.Command {
	var flags planFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the suggested vacation periods as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			horizon, result, err := runPlan(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			opts := export.ICSOptions{
				Name: fmt.Sprintf("Holiday plans %s %d", horizon.Country, horizon.Year),
			}
			if err := export.WriteICS(f, result.Plans, opts); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close output file: %w", err)
			}

			logger.Info("Calendar exported",
				zap.String("file", output),
				zap.Int("plans", len(result.Plans)))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d plan(s) to %s\n", len(result.Plans), output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "holiday-plans.ics", "Output file")

	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			cal, err := buildCalendar(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Calendar:    cal,
				Optimizer:   planner.NewOptimizer(cfg.Planner.Workers, logger),
				Planner:     cfg.Planner,
				Country:     cfg.Holidays.Country,
				Logger:      logger,
				MaxDuration: cfg.Server.MaxDuration,
			})

			return srv.Run(cmd.Context(), cfg.Server.Addr, cfg.Server.GetShutdownTimeout())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
