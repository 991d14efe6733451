package weather

import (
	"testing"
	"time"

	"github.com/dawnfire/dashboard/internal/apperr"
)

func makeSample(ts time.Time, temp, pop, pressure float64, cond, icon string) ForecastSample {
	var s ForecastSample
	s.Dt = ts.Unix()
	s.Main.Temp = temp
	s.Main.Humidity = 55
	s.Main.Pressure = pressure
	s.Wind.Speed = 7.4
	s.Wind.Deg = 180
	s.Weather = []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	}{{Main: cond, Icon: icon}}
	s.Pop = pop
	return s
}

// threeHourSeries builds an upstream-shaped series: one sample every
// 3 hours starting at start, for the given count.
func threeHourSeries(start time.Time, count int) []ForecastSample {
	series := make([]ForecastSample, 0, count)
	for i := 0; i < count; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		series = append(series, makeSample(ts, 60+float64(i%8), 0.2, 1012, "Clouds", "03d"))
	}
	return series
}

func TestNormalizeEmptySeries(t *testing.T) {
	_, err := Normalize(nil, time.Now(), 0, 0)
	if err == nil {
		t.Fatal("expected error for empty series")
	}
	if !apperr.IsType(err, apperr.TypeUpstreamData) {
		t.Fatalf("expected upstream data error, got %v", err)
	}
}

func TestNormalizeCurrent(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, loc)

	series := threeHourSeries(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 40)
	series[0].Main.Temp = 59.5
	series[0].Wind.Speed = 7.4

	result, err := Normalize(series, now, 1750000000, 1750050000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Current.Temp != 60 {
		t.Errorf("current temp = %d, want 60", result.Current.Temp)
	}
	if result.Current.WindSpeed != 7 {
		t.Errorf("current wind speed = %d, want 7", result.Current.WindSpeed)
	}
	if result.Current.Condition != "Clouds" {
		t.Errorf("current condition = %q, want Clouds", result.Current.Condition)
	}
	if result.Current.Sunrise != 1750000000 || result.Current.Sunset != 1750050000 {
		t.Errorf("sunrise/sunset not passed through: %d/%d", result.Current.Sunrise, result.Current.Sunset)
	}
	if result.Current.AQI != nil {
		t.Error("aqi should be null")
	}
	if result.Current.WindDir == nil || *result.Current.WindDir != 180 {
		t.Errorf("wind dir = %v, want 180", result.Current.WindDir)
	}
}

func TestNormalizeZeroWindDirIsNull(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	series := threeHourSeries(now.Add(-time.Hour), 4)
	for i := range series {
		series[i].Wind.Deg = 0
	}

	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Current.WindDir != nil {
		t.Errorf("zero bearing should render null, got %v", *result.Current.WindDir)
	}
}

func TestNormalizeHourlyWindow(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, loc)
	endOfToday := time.Date(2025, 6, 15, 23, 59, 59, 999e6, loc)

	series := threeHourSeries(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 40)
	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Hourly) > 12 {
		t.Fatalf("hourly has %d entries, want <= 12", len(result.Hourly))
	}
	for _, h := range result.Hourly {
		ts, err := time.Parse("2006-01-02T15:04:05.000Z", h.Time)
		if err != nil {
			t.Fatalf("hourly time %q is not ISO-8601: %v", h.Time, err)
		}
		if !ts.After(now) {
			t.Errorf("hourly entry %s is not after now %s", h.Time, now)
		}
		if ts.After(endOfToday) {
			t.Errorf("hourly entry %s is past end of today %s", h.Time, endOfToday)
		}
	}
}

func TestNormalizeHourlyEmptyLateAtNight(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	now := time.Date(2025, 6, 15, 23, 58, 0, 0, loc)

	// All of today's samples are behind us at 23:58.
	series := threeHourSeries(time.Date(2025, 6, 15, 0, 0, 0, 0, loc).UTC(), 8)
	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("an empty hourly window is not an error: %v", err)
	}
	if len(result.Hourly) != 0 {
		t.Errorf("hourly should be empty at 23:58, got %d entries", len(result.Hourly))
	}
	if result.Hourly == nil {
		t.Error("hourly should serialize as [], not null")
	}
}

func TestNormalizeDailySelection(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	series := threeHourSeries(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 40)
	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Daily) > 3 {
		t.Fatalf("daily has %d entries, want <= 3", len(result.Daily))
	}

	today := now.UTC().Format("2006-01-02")
	prev := ""
	for _, d := range result.Daily {
		if d.Date <= today {
			t.Errorf("daily date %s is not strictly after today %s", d.Date, today)
		}
		if d.Date <= prev {
			t.Errorf("daily dates not ascending: %s after %s", d.Date, prev)
		}
		prev = d.Date

		if d.High < d.Low {
			t.Errorf("daily %s: high %d < low %d", d.Date, d.High, d.Low)
		}
	}

	want := []string{"2025-06-16", "2025-06-17", "2025-06-18"}
	for i, d := range result.Daily {
		if d.Date != want[i] {
			t.Errorf("daily[%d].date = %s, want %s", i, d.Date, want[i])
		}
	}
}

func TestNormalizeDailySingleSamplePerDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	var series []ForecastSample
	for i := 0; i < 4; i++ {
		ts := time.Date(2025, 6, 15+i, 12, 0, 0, 0, time.UTC)
		series = append(series, makeSample(ts, 72.4, 0.5, 1013, "Clear", "01d"))
	}

	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range result.Daily {
		if d.High != 72 || d.Low != 72 {
			t.Errorf("daily %s: high/low = %d/%d, want 72/72", d.Date, d.High, d.Low)
		}
		if d.PressureAvg != 1013 {
			t.Errorf("daily %s: pressureAvg = %d, want 1013", d.Date, d.PressureAvg)
		}
		if d.PrecipMax != 50 {
			t.Errorf("daily %s: precipMax = %d, want 50", d.Date, d.PrecipMax)
		}
		if d.Condition != "Clear" {
			t.Errorf("daily %s: condition = %q, want Clear", d.Date, d.Condition)
		}
	}
}

func TestNormalizeDailyConditionsFirstSeenOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	series := []ForecastSample{
		makeSample(day, 60, 0.1, 1010, "Rain", "10d"),
		makeSample(day.Add(3*time.Hour), 62, 0.2, 1011, "Clear", "01d"),
		makeSample(day.Add(6*time.Hour), 64, 0.3, 1012, "Rain", "10d"),
	}

	result, err := Normalize(series, now, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Daily) != 1 {
		t.Fatalf("expected one daily entry, got %d", len(result.Daily))
	}
	if result.Daily[0].Condition != "Rain, Clear" {
		t.Errorf("condition = %q, want \"Rain, Clear\"", result.Daily[0].Condition)
	}
}
