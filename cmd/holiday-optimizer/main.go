package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/holiday-optimizer/internal/calendar"
	"github.com/username/holiday-optimizer/internal/config"
)

var (
	configPath string
	logger     *zap.Logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "holiday-optimizer",
		Short: "Vacation day planner",
		Long:  "Find the vacation periods that turn the fewest vacation days into the longest breaks around weekends and public holidays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log settings
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
				return
			}
			level := "info"
			if err == nil {
				level = cfg.Log.Level
			}
			initLogger(level)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(
		optimizeCmd(),
		analyzeCmd(),
		holidaysCmd(),
		calendarCmd(),
		exportCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildCalendar wires the configured holiday source, its cache and fallback
func buildCalendar(ctx context.Context, cfg *config.Config) (calendar.Calendar, error) {
	var primary calendar.Calendar

	switch cfg.Holidays.Source {
	case config.SourceNager:
		cache, err := buildCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Nager.Date holiday API",
			zap.String("url", cfg.Holidays.APIURL),
			zap.String("cache", cfg.Cache.Type))
		primary = calendar.NewNagerCalendar(
			cfg.Holidays.APIURL,
			cfg.Holidays.GetTimeout(),
			cache,
			cfg.Cache.GetTTL(),
			logger,
		)

	case config.SourceBuiltin:
		logger.Info("Using built-in holiday tables")
		primary = calendar.NewBuiltinCalendar()

	case config.SourceFile:
		logger.Info("Using holiday file", zap.String("file", cfg.Holidays.File))
		fc := calendar.NewFileCalendar(cfg.Holidays.File, logger)
		if err := fc.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		primary = fc

	default:
		return nil, fmt.Errorf("unknown holiday source: %s", cfg.Holidays.Source)
	}

	if cfg.Holidays.Fallback == "" || cfg.Holidays.Fallback == cfg.Holidays.Source {
		return primary, nil
	}

	var fallback calendar.Calendar
	switch cfg.Holidays.Fallback {
	case config.SourceBuiltin:
		fallback = calendar.NewBuiltinCalendar()
	case config.SourceFile:
		fallback = calendar.NewFileCalendar(cfg.Holidays.File, logger)
	default:
		return nil, fmt.Errorf("unknown holiday fallback: %s", cfg.Holidays.Fallback)
	}

	compositeCal := calendar.NewCompositeCalendar(primary, fallback, logger)

	// Load fallback calendar
	if err := compositeCal.LoadFallback(); err != nil {
		logger.Warn("Failed to load fallback calendar, continuing with primary only",
			zap.Error(err))
		return primary, nil
	}

	return compositeCal, nil
}

func buildCache(ctx context.Context, cfg *config.Config) (calendar.Cache, error) {
	switch cfg.Cache.Type {
	case config.CacheNone:
		return calendar.NoopCache{}, nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unavailable, using in-memory cache",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Error(err))
			_ = client.Close()
			return calendar.NewMemoryCache(), nil
		}
		return calendar.NewRedisCache(client), nil

	default:
		return calendar.NewMemoryCache(), nil
	}
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core)
}
