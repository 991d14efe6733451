package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/dawnfire/dashboard/internal/apperr"
)

// parseEvent scans one iCal document and extracts the first VEVENT as
// an Event. Property parameters (TZID, VALUE) are ignored: a DTSTART
// value with a trailing Z is UTC, any other date-time is interpreted in
// loc, and a bare date is midnight in loc. Events without a SUMMARY or
// DTSTART are rejected; the caller logs the error and drops the block.
func parseEvent(raw string, loc *time.Location) (Event, error) {
	var (
		ev      Event
		inEvent bool
		found   bool
	)

	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if line == "BEGIN:VEVENT" {
			inEvent = true
			continue
		}
		if line == "END:VEVENT" {
			// Only the first VEVENT per resource is considered.
			break
		}
		if !inEvent {
			continue
		}

		colon := strings.Index(line, ":")
		if colon == -1 {
			continue
		}

		prop := line[:colon]
		value := line[colon+1:]
		if semi := strings.Index(prop, ";"); semi != -1 {
			prop = prop[:semi]
		}

		switch prop {
		case "SUMMARY":
			ev.Summary = value
		case "DTSTART":
			t, err := parseICalDate(value, loc)
			if err != nil {
				return Event{}, err
			}
			ev.start = t
			ev.Start = isoMillis(t)
			found = true
		case "DTEND":
			t, err := parseICalDate(value, loc)
			if err != nil {
				return Event{}, err
			}
			ev.End = isoMillis(t)
		}
	}

	if ev.Summary == "" || !found {
		return Event{}, apperr.Parse("event is missing SUMMARY or DTSTART", nil)
	}

	return ev, nil
}

// parseICalDate handles the two upstream shapes: basic-format
// date-times (YYYYMMDDTHHMMSS with an optional Z) read by fixed
// character offsets, and bare dates (YYYYMMDD) taken as local midnight.
func parseICalDate(value string, loc *time.Location) (time.Time, error) {
	if strings.Contains(value, "T") {
		if len(value) < 15 {
			return time.Time{}, apperr.Parse("date-time value too short: "+value, nil)
		}

		fields, err := atoiAll(value[0:4], value[4:6], value[6:8], value[9:11], value[11:13], value[13:15])
		if err != nil {
			return time.Time{}, apperr.Parse("malformed date-time value: "+value, err)
		}

		zone := loc
		if strings.HasSuffix(value, "Z") {
			zone = time.UTC
		}
		return time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, zone), nil
	}

	if len(value) < 8 {
		return time.Time{}, apperr.Parse("date value too short: "+value, nil)
	}

	fields, err := atoiAll(value[0:4], value[4:6], value[6:8])
	if err != nil {
		return time.Time{}, apperr.Parse("malformed date value: "+value, err)
	}
	return time.Date(fields[0], time.Month(fields[1]), fields[2], 0, 0, 0, 0, loc), nil
}

func atoiAll(parts ...string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// isoMillis renders an instant as UTC ISO-8601 with millisecond
// precision, matching what the widgets render.
func isoMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
