package weather

import (
	"context"
	"time"
)

// Service runs the forecast pipeline: fetch the raw series for a
// location and normalize it relative to the current instant.
type Service struct {
	fetcher         ForecastFetcher
	defaultLocation string

	// now supplies the reference instant; overridden in tests to pin
	// day boundaries.
	now func() time.Time
}

// NewService creates a weather Service.
func NewService(fetcher ForecastFetcher, defaultLocation string) *Service {
	return &Service{
		fetcher:         fetcher,
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// Get fetches and normalizes the forecast. An empty location falls
// back to the configured default.
func (s *Service) Get(ctx context.Context, location string) (*Normalized, error) {
	if location == "" {
		location = s.defaultLocation
	}

	resp, err := s.fetcher.Forecast(ctx, location)
	if err != nil {
		return nil, err
	}

	return Normalize(resp.List, s.now(), resp.City.Sunrise, resp.City.Sunset)
}
