package calendar

import "time"

// Event is the UI-ready calendar event. Start and End are ISO-8601
// instants; End and Calendar are optional.
type Event struct {
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Calendar string `json:"calendar,omitempty"`

	// start is the parsed instant backing Start, kept for sorting.
	start time.Time
}

// StartTime returns the parsed start instant.
func (e Event) StartTime() time.Time {
	return e.start
}

// CalendarRef identifies one discovered CalDAV collection.
type CalendarRef struct {
	Href string `json:"href"`
	Name string `json:"name"`
}
