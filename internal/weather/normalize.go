package weather

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dawnfire/dashboard/internal/apperr"
)

const (
	maxHourlyEntries = 12
	maxDailyEntries  = 3
)

// Normalize converts a 3-hour-step forecast series into the dashboard
// shape: a current snapshot, up to 12 remaining-today hourly entries,
// and up to 3 aggregated entries for the next calendar days.
//
// The reference instant now defines both "today" boundaries: its
// location bounds the hourly window, while daily grouping keys are the
// samples' UTC calendar dates compared against now's UTC date.
func Normalize(series []ForecastSample, now time.Time, sunrise, sunset int64) (*Normalized, error) {
	if len(series) == 0 {
		return nil, apperr.UpstreamData("forecast series is empty")
	}

	// Current conditions come from the first sample. The series is
	// ordered ascending on a 3-hour step, so searching for the sample
	// closest to now would not change the outcome meaningfully.
	first := series[0]
	result := &Normalized{
		Current: Current{
			Temp:       round(first.Main.Temp),
			Condition:  condition(first),
			Humidity:   first.Main.Humidity,
			WindSpeed:  round(first.Wind.Speed),
			WindDir:    windDir(first.Wind.Deg),
			Pressure:   first.Main.Pressure,
			PressureMb: first.Main.Pressure,
			Sunrise:    sunrise,
			Sunset:     sunset,
		},
		Hourly: []HourlyEntry{},
		Daily:  []DailyEntry{},
	}

	// Hourly: samples strictly after now, up to the end of today in
	// now's location. Running late in the evening can legitimately
	// produce an empty list.
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999e6, now.Location())
	for _, s := range series {
		if len(result.Hourly) >= maxHourlyEntries {
			break
		}
		t := s.Time()
		if t.After(now) && !t.After(endOfToday) {
			result.Hourly = append(result.Hourly, HourlyEntry{
				Time:              isoMillis(t),
				Temp:              round(s.Main.Temp),
				Condition:         condition(s),
				Icon:              icon(s),
				PrecipProbability: round(s.Pop * 100),
				Pressure:          s.Main.Pressure,
				PressureMb:        s.Main.Pressure,
			})
		}
	}

	// Daily: group every sample by its UTC calendar date, then keep
	// the days strictly after today's UTC date.
	type dayGroup struct {
		temps      []float64
		precip     []float64
		pressures  []float64
		conditions []string
		seen       map[string]bool
	}

	groups := make(map[string]*dayGroup)
	for _, s := range series {
		key := s.Time().UTC().Format("2006-01-02")
		g, ok := groups[key]
		if !ok {
			g = &dayGroup{seen: make(map[string]bool)}
			groups[key] = g
		}
		g.temps = append(g.temps, s.Main.Temp)
		g.precip = append(g.precip, s.Pop*100)
		g.pressures = append(g.pressures, s.Main.Pressure)
		if c := condition(s); !g.seen[c] {
			g.seen[c] = true
			g.conditions = append(g.conditions, c)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	today := now.UTC().Format("2006-01-02")
	for _, k := range keys {
		if k <= today {
			continue
		}
		if len(result.Daily) >= maxDailyEntries {
			break
		}
		g := groups[k]
		result.Daily = append(result.Daily, DailyEntry{
			Date:        k,
			High:        round(maxOf(g.temps)),
			Low:         round(minOf(g.temps)),
			PrecipMax:   round(maxOf(g.precip)),
			PressureAvg: round(mean(g.pressures)),
			Condition:   joinConditions(g.conditions),
		})
	}

	return result, nil
}

// round implements round-half-away-from-zero.
func round(v float64) int {
	return int(math.Round(v))
}

// windDir mirrors the upstream contract: a zero bearing is reported as
// null rather than 0.
func windDir(deg float64) *float64 {
	if deg == 0 {
		return nil
	}
	return &deg
}

func condition(s ForecastSample) string {
	if len(s.Weather) == 0 {
		return ""
	}
	return s.Weather[0].Main
}

func icon(s ForecastSample) string {
	if len(s.Weather) == 0 {
		return ""
	}
	return s.Weather[0].Icon
}

func joinConditions(conds []string) string {
	return strings.Join(conds, ", ")
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// isoMillis renders an instant the way the widgets expect timestamps:
// UTC with millisecond precision and a literal Z suffix.
func isoMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
