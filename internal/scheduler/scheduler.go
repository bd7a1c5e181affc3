package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/sudo-py-dev/hebcal-api/internal/hebcal"
	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

// Scheduler periodically refreshes calendar data for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *hebcal.Service
	locations []hebcal.TrackedLocation
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler.
func New(locations []hebcal.TrackedLocation, interval time.Duration, service *hebcal.Service, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run fires immediately so the store is warm before the first request.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Warn("no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		s.log.Info("running calendar refresh job", "locations", len(s.locations))

		var wg sync.WaitGroup
		for _, loc := range s.locations {
			loc := loc
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.service.RefreshLocation(ctx, loc); err != nil {
					s.log.Error("refresh failed", "location", loc.Key(), "error", err)
				}
			}()
		}
		wg.Wait()
		s.log.Info("completed calendar refresh job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
