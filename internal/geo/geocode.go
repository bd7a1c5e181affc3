package geo

import (
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

// Resolver turns city names into coordinates so city-only tracked locations
// can use the location-bound endpoints. Results are cached for the process
// lifetime; city coordinates do not move.
type Resolver struct {
	mu    sync.Mutex
	cache map[string][2]float64
	log   *logger.Logger
}

// NewResolver configures the underlying geocoder with the given Google API
// key and returns a Resolver. An empty key leaves geocoding disabled.
func NewResolver(apiKey string, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	geocoder.ApiKey = apiKey
	return &Resolver{
		cache: make(map[string][2]float64),
		log:   log,
	}
}

// Resolve returns the latitude and longitude of a city.
func (r *Resolver) Resolve(city string) (lat, lon float64, err error) {
	if city == "" {
		return 0, 0, fmt.Errorf("city is required")
	}
	if geocoder.ApiKey == "" {
		return 0, 0, fmt.Errorf("geocoder API key not configured")
	}

	r.mu.Lock()
	cached, ok := r.cache[city]
	r.mu.Unlock()
	if ok {
		return cached[0], cached[1], nil
	}

	location, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", city, err)
	}

	r.mu.Lock()
	r.cache[city] = [2]float64{location.Latitude, location.Longitude}
	r.mu.Unlock()

	r.log.Debug("resolved city", "city", city, "lat", location.Latitude, "lon", location.Longitude)
	return location.Latitude, location.Longitude, nil
}
