package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// FileCalendar implements Calendar interface using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger

	mu     sync.RWMutex
	loaded bool
	data   map[string][]Holiday // key: "CC-YYYY"
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]Holiday),
	}
}

// Load loads holiday data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	data := make(map[string][]Holiday)
	count := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD CC local name [| english name]
		// Example: 2025-05-01 SK Sviatok práce | Labour Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse(dateutil.DateLayout, parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		country := strings.ToUpper(parts[1])
		localName, name, found := strings.Cut(parts[2], "|")
		localName = strings.TrimSpace(localName)
		name = strings.TrimSpace(name)
		if !found || name == "" {
			name = localName
		}

		key := fc.key(country, date.Year())
		data[key] = append(data[key], Holiday{
			Date:        date,
			LocalName:   localName,
			Name:        name,
			CountryCode: country,
		})
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fc.mu.Lock()
	fc.data = data
	fc.loaded = true
	fc.mu.Unlock()

	fc.logger.Info("Holiday file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", count))

	return nil
}

// Holidays returns the holidays listed in the file for the country and year.
// The file is loaded lazily on first use.
func (fc *FileCalendar) Holidays(_ context.Context, year int, country string) ([]Holiday, error) {
	fc.mu.RLock()
	loaded := fc.loaded
	fc.mu.RUnlock()

	if !loaded {
		if err := fc.Load(); err != nil {
			return nil, err
		}
	}

	fc.mu.RLock()
	defer fc.mu.RUnlock()

	holidays, ok := fc.data[fc.key(strings.ToUpper(country), year)]
	if !ok {
		return nil, fmt.Errorf("no holidays for %s in %d in %s", country, year, fc.filePath)
	}

	out := make([]Holiday, len(holidays))
	copy(out, holidays)
	return out, nil
}

func (fc *FileCalendar) key(country string, year int) string {
	return fmt.Sprintf("%s-%d", country, year)
}
