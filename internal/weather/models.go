package weather

import "time"

// ForecastSample is one 3-hour step of the OpenWeatherMap 5-day
// forecast feed. Only the fields the dashboard consumes are mapped.
type ForecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Pop float64 `json:"pop"`
}

// Time returns the sample's timestamp.
func (s ForecastSample) Time() time.Time {
	return time.Unix(s.Dt, 0)
}

// ForecastResponse is the upstream forecast payload.
type ForecastResponse struct {
	List []ForecastSample `json:"list"`
	City struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"city"`
}

// Current is the snapshot the dashboard renders as "now". It is taken
// from the first sample of the series, with sunrise/sunset passed
// through as epoch seconds.
type Current struct {
	Temp      int      `json:"temp"`
	Condition string   `json:"condition"`
	Humidity  float64  `json:"humidity"`
	WindSpeed int      `json:"windSpeed"`
	WindDir   *float64 `json:"windDir"`
	AQI       *int     `json:"aqi"`
	Pressure  float64  `json:"pressure"`
	PressureMb float64 `json:"pressureMb"`
	Sunrise   int64    `json:"sunrise"`
	Sunset    int64    `json:"sunset"`
}

// HourlyEntry is one remaining-today forecast step.
type HourlyEntry struct {
	Time              string  `json:"time"`
	Temp              int     `json:"temp"`
	Condition         string  `json:"condition"`
	Icon              string  `json:"icon"`
	PrecipProbability int     `json:"precipProbability"`
	Pressure          float64 `json:"pressure"`
	PressureMb        float64 `json:"pressureMb"`
}

// DailyEntry aggregates all samples sharing one UTC calendar date.
type DailyEntry struct {
	Date        string `json:"date"`
	High        int    `json:"high"`
	Low         int    `json:"low"`
	PrecipMax   int    `json:"precipMax"`
	PressureAvg int    `json:"pressureAvg"`
	Condition   string `json:"condition"`
}

// Normalized is the UI-ready weather shape.
type Normalized struct {
	Current Current      `json:"current"`
	Hourly  []HourlyEntry `json:"hourly"`
	Daily   []DailyEntry  `json:"daily"`
}
