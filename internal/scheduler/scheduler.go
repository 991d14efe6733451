// Package scheduler keeps the last-good weather snapshot warm so the
// dashboard can ride out OpenWeatherMap outages.
package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dawnfire/dashboard/internal/store"
	"github.com/dawnfire/dashboard/internal/weather"
)

// WeatherKey builds the store key for a location's weather snapshot.
func WeatherKey(location string) string {
	return "weather:" + location
}

// Scheduler periodically refreshes the weather snapshot for the
// configured location into the store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	store     *store.MemoryStore
	location  string
	interval  time.Duration
}

// New creates a Scheduler.
func New(location string, interval time.Duration, service *weather.Service, st *store.MemoryStore) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		store:     st,
		location:  location,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying
// scheduler. A failed refresh keeps the previous snapshot.
func (s *Scheduler) Start() error {
	if s.location == "" {
		log.Println("scheduler: no weather location configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := s.service.Get(ctx, s.location)
		if err != nil {
			log.Printf("scheduler: weather refresh failed for %s: %v", s.location, err)
			return
		}

		payload, err := json.Marshal(result)
		if err != nil {
			log.Printf("scheduler: could not encode weather snapshot: %v", err)
			return
		}

		s.store.Save(WeatherKey(s.location), payload)
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
