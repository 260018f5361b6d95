package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/config"
	"github.com/username/holiday-optimizer/internal/planner"
)

// Options holds the server dependencies
type Options struct {
	Calendar  calendar.Calendar
	Optimizer *planner.Optimizer
	Planner   config.PlannerConfig
	Country   string
	Logger    *zap.Logger
	Now       func() time.Time

	// MaxDuration caps the maxDuration a request may ask for.
	// Zero means DefaultMaxDuration.
	MaxDuration int
}

// DefaultMaxDuration is the longest break an API request may ask for
const DefaultMaxDuration = 31

// Server exposes the planner over HTTP
type Server struct {
	calendar  calendar.Calendar
	optimizer *planner.Optimizer
	defaults  config.PlannerConfig
	country   string
	maxLength int
	logger    *zap.Logger
	now       func() time.Time
	router    *gin.Engine
}

// New creates a Server with its routes registered
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}

	s := &Server{
		calendar:  opts.Calendar,
		optimizer: opts.Optimizer,
		defaults:  opts.Planner,
		country:   opts.Country,
		maxLength: opts.MaxDuration,
		logger:    opts.Logger,
		now:       opts.Now,
	}

	r := gin.New()
	r.Use(requestLogger(s.logger), gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/holidays", s.handleHolidays)
		api.POST("/optimize", s.handleOptimize)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/export/ics", s.handleExportICS)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled or SIGINT/SIGTERM arrives,
// then waits up to shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		serverErr <- srv.ListenAndServe()
	}()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)

	case sig := <-sigChan:
		s.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-ctx.Done():
		s.logger.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
