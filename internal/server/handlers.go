package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

var errBadRequest = errors.New("bad request")

type optimizeRequest struct {
	Year          *int   `json:"year"`
	Country       string `json:"country"`
	AvailableDays *int   `json:"availableDays"`
	MinDuration   *int   `json:"minDuration"`
	MaxDuration   *int   `json:"maxDuration"`
}

type optimizeResponse struct {
	Year          int      `json:"year"`
	Country       string   `json:"country"`
	CalendarLinks []string `json:"calendarLinks"`
	*planner.Result
}

type analyzeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Country   string `json:"country"`
}

type analyzeResponse struct {
	Country              string           `json:"country"`
	HolidayDataAvailable bool             `json:"holidayDataAvailable"`
	Analysis             planner.Analysis `json:"analysis"`
}

type holidaysResponse struct {
	Year                 int                `json:"year"`
	Country              string             `json:"country"`
	HolidayDataAvailable bool               `json:"holidayDataAvailable"`
	FailedYears          []int              `json:"failedYears"`
	Holidays             []calendar.Holiday `json:"holidays"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleHolidays(c *gin.Context) {
	year := s.defaults.PlanningYear(s.now())
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9998 {
			respondError(c, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	country := s.countryOrDefault(c.Query("country"))

	horizon := calendar.LoadHorizon(c.Request.Context(), s.calendar, year, country, s.logger)

	failed := horizon.FailedYears
	if failed == nil {
		failed = []int{}
	}
	c.JSON(http.StatusOK, holidaysResponse{
		Year:                 year,
		Country:              country,
		HolidayDataAvailable: horizon.Available(),
		FailedYears:          failed,
		Holidays:             horizon.Holidays.Holidays(),
	})
}

func (s *Server) handleOptimize(c *gin.Context) {
	resp, err := s.optimize(c)
	if err != nil {
		s.respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExportICS(c *gin.Context) {
	resp, err := s.optimize(c)
	if err != nil {
		s.respondPlannerError(c, err)
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=holiday-plans_%s_%d.ics", resp.Country, resp.Year))
	c.Status(http.StatusOK)

	opts := export.ICSOptions{
		Name:  fmt.Sprintf("Holiday plans %s %d", resp.Country, resp.Year),
		Stamp: s.now(),
	}
	if err := export.WriteICS(c.Writer, resp.Plans, opts); err != nil {
		s.logger.Error("Failed to write calendar export", zap.Error(err))
		_ = c.Error(err)
	}
}

func (s *Server) optimize(c *gin.Context) (*optimizeResponse, error) {
	// An empty body means all config defaults
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	year := s.defaults.PlanningYear(s.now())
	if req.Year != nil {
		year = *req.Year
	}
	preq := planner.Request{
		Year:          year,
		AvailableDays: valueOr(req.AvailableDays, s.defaults.AvailableDays),
		MinDuration:   valueOr(req.MinDuration, s.defaults.MinDuration),
		MaxDuration:   valueOr(req.MaxDuration, s.defaults.MaxDuration),
	}
	if err := preq.Validate(); err != nil {
		return nil, err
	}
	if preq.MaxDuration > s.maxLength {
		return nil, fmt.Errorf("%w: maxDuration %d exceeds the limit of %d days",
			errBadRequest, preq.MaxDuration, s.maxLength)
	}

	country := s.countryOrDefault(req.Country)
	horizon := calendar.LoadHorizon(c.Request.Context(), s.calendar, year, country, s.logger)
	preq.Holidays = horizon.Holidays

	result, err := s.optimizer.Optimize(c.Request.Context(), preq)
	if err != nil {
		return nil, err
	}

	links := make([]string, len(result.Plans))
	for i, p := range result.Plans {
		links[i] = export.GoogleCalendarLink(p)
	}

	return &optimizeResponse{
		Year:          year,
		Country:       country,
		CalendarLinks: links,
		Result:        result,
	}, nil
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start, err := dateutil.ParseDate(req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid startDate: "+err.Error())
		return
	}
	end, err := dateutil.ParseDate(req.EndDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid endDate: "+err.Error())
		return
	}
	r, err := planner.NewDateRange(start, end)
	if err != nil {
		s.respondPlannerError(c, err)
		return
	}
	// Holiday data is loaded for the start year and the one after it
	if r.End.Year() > r.Start.Year()+1 {
		respondError(c, http.StatusBadRequest, "date range may span at most two calendar years")
		return
	}

	country := s.countryOrDefault(req.Country)
	horizon := calendar.LoadHorizon(c.Request.Context(), s.calendar, r.Start.Year(), country, s.logger)

	analysis, err := planner.Analyze(r, horizon.Holidays)
	if err != nil {
		s.respondPlannerError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Country:              country,
		HolidayDataAvailable: horizon.Available(),
		Analysis:             analysis,
	})
}

func (s *Server) countryOrDefault(country string) string {
	if country == "" {
		country = s.country
	}
	return strings.ToUpper(strings.TrimSpace(country))
}

func (s *Server) respondPlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, planner.ErrInvalidConfiguration),
		errors.Is(err, planner.ErrInvalidRange):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request processing failed", zap.Error(err))
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
