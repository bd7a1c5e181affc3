package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sudo-py-dev/hebcal-api/internal/hebcal"
	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

type AppConfig struct {
	// Hebcal API base URL; empty means the production host.
	BaseURL string

	// Timeout for outbound API calls.
	HTTPTimeout time.Duration

	// FetchInterval controls how often tracked locations are refreshed.
	FetchInterval time.Duration

	// RefreshHorizonDays is how far ahead each refresh looks.
	RefreshHorizonDays int

	// Locations to track.
	Locations []hebcal.TrackedLocation

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	// Google API key for geocoding city-only locations. Optional.
	GeocoderAPIKey string

	Port     string
	LogLevel string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Default().Info("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.BaseURL = os.Getenv("HEBCAL_BASE_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Calendar data moves slowly; default to four refreshes a day.
	intervalStr := getenvDefault("FETCH_INTERVAL", "6h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.RefreshHorizonDays = getenvInt("REFRESH_HORIZON_DAYS", 30)

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 28) // a week at 6-hour intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "168h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", logger.INFO)

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadLocations reads HEBCAL_GEONAMEIDS and HEBCAL_CITIES, both optional
// comma-separated lists.
func loadLocations() ([]hebcal.TrackedLocation, error) {
	var locs []hebcal.TrackedLocation

	if raw := os.Getenv("HEBCAL_GEONAMEIDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid geonameid in HEBCAL_GEONAMEIDS: %q", part)
			}
			locs = append(locs, hebcal.TrackedLocation{Geonameid: id})
		}
	}

	if raw := os.Getenv("HEBCAL_CITIES"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			locs = append(locs, hebcal.TrackedLocation{City: part})
		}
	}

	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
