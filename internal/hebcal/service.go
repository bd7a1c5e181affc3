package hebcal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

// TrackedLocation is a logical place whose calendar the service keeps warm.
// Geonameid is preferred when set; latitude/longitude serve city-only
// locations after geocoding.
type TrackedLocation struct {
	City      string   `json:"city,omitempty"`
	Geonameid int      `json:"geonameid,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l TrackedLocation) Key() string {
	if l.Geonameid != 0 {
		return fmt.Sprintf("geonameid:%d", l.Geonameid)
	}
	return "city:" + l.City
}

// Locatable reports whether the location can address the location-bound
// endpoints (shabbat, zmanim).
func (l TrackedLocation) Locatable() bool {
	return l.Geonameid != 0 || (l.Latitude != nil && l.Longitude != nil)
}

// Snapshot is one refresh result for a location: the events covering the
// service horizon at the moment they were fetched.
type Snapshot struct {
	Location  TrackedLocation `json:"location"`
	FetchedAt time.Time       `json:"fetchedAt"`
	JobID     string          `json:"jobId"`
	Events    []Event         `json:"events"`
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy.
type Store interface {
	SaveSnapshot(loc TrackedLocation, snapshot Snapshot)
	GetLatest(loc TrackedLocation) (Snapshot, error)
	GetRange(loc TrackedLocation, from, to time.Time) ([]Snapshot, error)
}

// Service orchestrates calendar and shabbat fetches for tracked locations and
// persists snapshots. Outbound calls run through a shared circuit breaker so
// a flapping upstream stops being hammered across locations.
type Service struct {
	store    Store
	calendar *CalendarClient
	shabbat  *ShabbatClient
	circuit  *gobreaker.CircuitBreaker
	horizon  int
	log      *logger.Logger
}

// NewService creates a Service over the given store and clients. horizonDays
// is how far ahead each refresh looks; values below 1 fall back to 30.
func NewService(store Store, calendar *CalendarClient, shabbat *ShabbatClient, horizonDays int, log *logger.Logger) *Service {
	if horizonDays < 1 {
		horizonDays = 30
	}
	if log == nil {
		log = logger.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hebcal",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Service{
		store:    store,
		calendar: calendar,
		shabbat:  shabbat,
		circuit:  cb,
		horizon:  horizonDays,
		log:      log,
	}
}

// RefreshLocation fetches the coming period's events for a location and
// stores a snapshot. Shabbat times are merged in when the location can be
// addressed; a shabbat failure degrades to a calendar-only snapshot. When
// nothing at all succeeds the last good snapshot is kept.
func (s *Service) RefreshLocation(ctx context.Context, loc TrackedLocation) error {
	jobID := uuid.NewString()
	s.log.Debug("refreshing location", "job", jobID, "location", loc.Key())

	now := time.Now().UTC()
	opts := EventOptions{
		Start: FormatDate(now),
		End:   FormatDate(now.AddDate(0, 0, s.horizon)),

		MajorHolidays:      true,
		MinorHolidays:      true,
		RoshChodesh:        true,
		MinorFasts:         true,
		SpecialShabbatot:   true,
		ModernHolidays:     true,
		WeeklyTorahPortion: true,
		OmerDays:           true,
	}
	switch {
	case loc.Geonameid != 0:
		opts.Geonameid = loc.Geonameid
		opts.CandleLightingTimes = true
	case loc.City != "":
		opts.City = loc.City
	default:
		return &ValidationError{Field: "location", Message: "tracked location needs a geonameid or city"}
	}

	var events []Event

	result, err := s.circuit.Execute(func() (any, error) {
		return s.calendar.Events(ctx, opts)
	})
	if err != nil {
		s.log.Error("calendar refresh failed", "job", jobID, "location", loc.Key(), "error", err)
	} else {
		events = append(events, result.(*CalendarResponse).Items...)
	}

	if s.shabbat != nil && loc.Locatable() {
		shOpts := DefaultShabbatOptions()
		shOpts.Geonameid = loc.Geonameid
		if loc.Geonameid == 0 {
			shOpts.Latitude = loc.Latitude
			shOpts.Longitude = loc.Longitude
		}

		result, err := s.circuit.Execute(func() (any, error) {
			return s.shabbat.Times(ctx, shOpts)
		})
		if err != nil {
			// Partial success: keep whatever the calendar gave us.
			s.log.Warn("shabbat refresh failed", "job", jobID, "location", loc.Key(), "error", err)
		} else {
			events = append(events, result.(*CalendarResponse).Items...)
		}
	}

	if len(events) == 0 {
		s.log.Warn("no events fetched; keeping last good snapshot if any", "job", jobID, "location", loc.Key())
		return fmt.Errorf("refresh produced no events for %s", loc.Key())
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	s.store.SaveSnapshot(loc, Snapshot{
		Location:  loc,
		FetchedAt: now,
		JobID:     jobID,
		Events:    events,
	})
	s.log.Info("location refreshed", "job", jobID, "location", loc.Key(), "events", len(events))
	return nil
}

// Upcoming returns the stored events for a location falling within the next
// `days` days, ordered by date.
func (s *Service) Upcoming(loc TrackedLocation, days int) ([]Event, error) {
	if days <= 0 {
		return nil, &ValidationError{Field: "days", Message: "must be greater than zero"}
	}

	snapshot, err := s.store.GetLatest(loc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, days+1)

	var upcoming []Event
	for _, ev := range snapshot.Events {
		if ev.Date.IsZero() {
			continue
		}
		if !ev.Date.Before(today) && ev.Date.Before(cutoff) {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming, nil
}

// History returns the stored snapshots for a location between from and to.
func (s *Service) History(loc TrackedLocation, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(loc, from, to)
}

// Holidays filters the latest snapshot down to holiday events.
func (s *Service) Holidays(loc TrackedLocation) ([]Event, error) {
	snapshot, err := s.store.GetLatest(loc)
	if err != nil {
		return nil, err
	}

	var holidays []Event
	for _, ev := range snapshot.Events {
		if ev.Category == CategoryHoliday {
			holidays = append(holidays, ev)
		}
	}
	return holidays, nil
}
