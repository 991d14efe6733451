package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/dawnfire/dashboard/internal/apperr"
	"github.com/dawnfire/dashboard/internal/upstream"
)

// ForecastFetcher abstracts the forecast upstream so the service and
// tests can substitute it.
type ForecastFetcher interface {
	Forecast(ctx context.Context, location string) (*ForecastResponse, error)
}

// OpenWeatherClient fetches the 5-day/3-hour forecast feed from
// OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a forecast client. baseURL overrides the
// production endpoint when non-empty (tests point it at a local server).
func NewOpenWeatherClient(client *http.Client, apiKey, baseURL string) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/forecast"
	}

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: upstream.Config{
			Client:  client,
			Backoff: upstream.DefaultBackoff(),
		},
		circuit: upstream.NewBreaker("openweathermap"),
	}
}

// Forecast fetches the raw forecast series for a "City,CC" location
// string. The location is opaque to this client; it is passed through
// to the upstream query untouched.
func (c *OpenWeatherClient) Forecast(ctx context.Context, location string) (*ForecastResponse, error) {
	if c.apiKey == "" {
		return nil, apperr.Config("OpenWeatherMap API key not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("units", "imperial")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			return nil, apperr.Upstream("openweathermap", statusErr.Status)
		}
		return nil, err
	}
	defer resp.Body.Close()

	var payload ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.UpstreamData("forecast payload is not valid JSON")
	}

	return &payload, nil
}
