package weather

import (
	"context"
	"testing"
	"time"
)

type fakeFetcher struct {
	lastLocation string
	resp         *ForecastResponse
	err          error
}

func (f *fakeFetcher) Forecast(ctx context.Context, location string) (*ForecastResponse, error) {
	f.lastLocation = location
	return f.resp, f.err
}

func TestServiceDefaultsLocation(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	fetcher := &fakeFetcher{resp: &ForecastResponse{
		List: threeHourSeries(now.Add(-time.Hour), 8),
	}}
	svc := NewService(fetcher, "Seattle,US")
	svc.now = func() time.Time { return now }

	result, err := svc.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.lastLocation != "Seattle,US" {
		t.Errorf("location = %q, want default Seattle,US", fetcher.lastLocation)
	}
	if result.Current.Condition != "Clouds" {
		t.Errorf("current condition = %q", result.Current.Condition)
	}

	if _, err := svc.Get(context.Background(), "Lisbon,PT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.lastLocation != "Lisbon,PT" {
		t.Errorf("location = %q, want Lisbon,PT", fetcher.lastLocation)
	}
}
