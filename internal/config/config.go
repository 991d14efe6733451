package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries everything the dashboard server needs. It is built
// once at startup and passed explicitly to constructors; nothing reads
// the environment after Load returns.
type AppConfig struct {
	Port string
	Env  string

	// HTTPTimeout bounds every outbound upstream call.
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	WeatherLocation   string

	NextcloudURL      string
	NextcloudUser     string
	NextcloudPassword string

	PrometheusURL string

	// RefreshInterval controls the background weather snapshot refresh.
	RefreshInterval time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port: getenvDefault("PORT", "8080"),
		Env:  getenvDefault("APP_ENV", "development"),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherLocation:   getenvDefault("WEATHER_LOCATION", "Seattle,US"),

		NextcloudURL:      os.Getenv("NEXTCLOUD_URL"),
		NextcloudUser:     os.Getenv("NEXTCLOUD_USER"),
		NextcloudPassword: os.Getenv("NEXTCLOUD_PASSWORD"),

		PrometheusURL: os.Getenv("PROMETHEUS_URL"),
	}

	timeout, err := parseDurationEnv("HTTP_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	interval, err := parseDurationEnv("REFRESH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = interval

	return cfg, nil
}

// Production reports whether the server runs in production mode.
func (c *AppConfig) Production() bool {
	return c.Env == "production"
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
