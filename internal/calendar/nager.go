package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultNagerURL = "https://date.nager.at/api/v3"

	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 24 * time.Hour
)

// NagerCalendar implements Calendar using the date.nager.at public holiday API
type NagerCalendar struct {
	apiURL     string
	cache      Cache
	cacheTTL   time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNagerCalendar creates a new NagerCalendar instance
func NewNagerCalendar(apiURL string, timeout time.Duration, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *NagerCalendar {
	if apiURL == "" {
		apiURL = DefaultNagerURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &NagerCalendar{
		apiURL:   strings.TrimRight(apiURL, "/"),
		cache:    cache,
		cacheTTL: cacheTTL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Holidays returns the public holidays for the year, served from cache when possible
func (nc *NagerCalendar) Holidays(ctx context.Context, year int, country string) ([]Holiday, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return nil, fmt.Errorf("country code is required")
	}

	cacheKey := fmt.Sprintf("holidays:%s:%d", country, year)

	if data, ok, err := nc.cache.Get(ctx, cacheKey); err != nil {
		nc.logger.Warn("Holiday cache read failed",
			zap.String("key", cacheKey),
			zap.Error(err))
	} else if ok {
		var holidays []Holiday
		if err := json.Unmarshal(data, &holidays); err == nil {
			nc.logger.Debug("Using cached holidays",
				zap.String("country", country),
				zap.Int("year", year))
			return holidays, nil
		}
		nc.logger.Warn("Ignoring corrupt cache entry", zap.String("key", cacheKey))
	}

	holidays, err := nc.fetchHolidays(ctx, year, country)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(holidays)
	if err == nil {
		err = nc.cache.Set(ctx, cacheKey, data, nc.cacheTTL)
	}
	if err != nil {
		nc.logger.Warn("Holiday cache write failed",
			zap.String("key", cacheKey),
			zap.Error(err))
	}

	nc.logger.Info("Holidays fetched and cached",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// fetchHolidays fetches one year from the API
func (nc *NagerCalendar) fetchHolidays(ctx context.Context, year int, country string) ([]Holiday, error) {
	// Build URL: https://date.nager.at/api/v3/PublicHolidays/{year}/{countryCode}
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", nc.apiURL, year, country)

	nc.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Int("year", year),
		zap.String("country", country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := nc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		// Unknown country or no data for the year
		nc.logger.Warn("No holidays published",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Int("status", resp.StatusCode))
		return []Holiday{}, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var holidays []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	for i := range holidays {
		if holidays[i].CountryCode == "" {
			holidays[i].CountryCode = country
		}
	}

	return holidays, nil
}
