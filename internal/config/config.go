package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceNager   = "nager"
	SourceBuiltin = "builtin"
	SourceFile    = "file"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig selects where public holidays come from
type HolidaysConfig struct {
	Source   string `mapstructure:"source"`   // "nager", "builtin" or "file"
	Country  string `mapstructure:"country"`  // ISO 3166-1 alpha-2
	APIURL   string `mapstructure:"api_url"`  // For nager source
	Fallback string `mapstructure:"fallback"` // "", "builtin" or "file"
	File     string `mapstructure:"file"`
	Timeout  string `mapstructure:"timeout"`
}

// CacheConfig represents holiday response cache configuration
type CacheConfig struct {
	Type          string `mapstructure:"type"`
	TTL           string `mapstructure:"ttl"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// PlannerConfig holds optimizer defaults
type PlannerConfig struct {
	Year          int `mapstructure:"year"` // 0 means the current year
	AvailableDays int `mapstructure:"available_days"`
	MinDuration   int `mapstructure:"min_duration"`
	MaxDuration   int `mapstructure:"max_duration"`
	Workers       int `mapstructure:"workers"` // 0 means GOMAXPROCS
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	MaxDuration     int    `mapstructure:"max_duration"` // upper bound for maxDuration in API requests
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("holidays.source", SourceNager)
	v.SetDefault("holidays.country", "SK")
	v.SetDefault("holidays.api_url", "https://date.nager.at/api/v3")
	v.SetDefault("holidays.fallback", SourceBuiltin)
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.timeout", "10s")

	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("planner.year", 0)
	v.SetDefault("planner.available_days", 25)
	v.SetDefault("planner.min_duration", 5)
	v.SetDefault("planner.max_duration", 10)
	v.SetDefault("planner.workers", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_duration", 31)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file.
// Without an explicit path a missing config file is fine and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.holiday-optimizer")
		v.AddConfigPath("/etc/holiday-optimizer")
	}

	// Read environment variables, e.g. HOLIDAY_OPTIMIZER_HOLIDAYS_COUNTRY
	v.SetEnvPrefix("HOLIDAY_OPTIMIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Holidays config
	switch c.Holidays.Source {
	case SourceNager:
		if c.Holidays.APIURL == "" {
			return fmt.Errorf("holidays.api_url is required for nager source")
		}
	case SourceBuiltin:
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'nager', 'builtin' or 'file', got '%s'", c.Holidays.Source)
	}

	switch c.Holidays.Fallback {
	case "", SourceBuiltin:
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file fallback")
		}
	default:
		return fmt.Errorf("holidays.fallback must be empty, 'builtin' or 'file', got '%s'", c.Holidays.Fallback)
	}

	if len(c.Holidays.Country) != 2 {
		return fmt.Errorf("holidays.country must be a two-letter country code, got '%s'", c.Holidays.Country)
	}

	// Validate Cache config
	switch c.Cache.Type {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be 'memory', 'redis' or 'none', got '%s'", c.Cache.Type)
	}

	// Validate Planner config
	if c.Planner.Year != 0 && (c.Planner.Year < 1 || c.Planner.Year > 9998) {
		return fmt.Errorf("planner.year must be 0 or between 1 and 9998")
	}
	if c.Planner.AvailableDays < 0 {
		return fmt.Errorf("planner.available_days must not be negative")
	}
	if c.Planner.MinDuration < 1 {
		return fmt.Errorf("planner.min_duration must be positive")
	}
	if c.Planner.MaxDuration < c.Planner.MinDuration {
		return fmt.Errorf("planner.max_duration must not be less than planner.min_duration")
	}
	if c.Planner.Workers < 0 {
		return fmt.Errorf("planner.workers must not be negative")
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxDuration < c.Planner.MaxDuration {
		return fmt.Errorf("server.max_duration must not be less than planner.max_duration")
	}

	return nil
}

// GetTTL returns cache TTL duration
func (c *CacheConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 24*time.Hour)
}

// GetTimeout returns the holiday API request timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetShutdownTimeout returns how long the server waits for in-flight requests
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// PlanningYear returns the configured year, or the year of now when unset
func (c *PlannerConfig) PlanningYear(now time.Time) int {
	if c.Year == 0 {
		return now.Year()
	}
	return c.Year
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIURL = os.ExpandEnv(c.Holidays.APIURL)
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Cache.RedisAddr = os.ExpandEnv(c.Cache.RedisAddr)
	c.Cache.RedisPassword = os.ExpandEnv(c.Cache.RedisPassword)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
