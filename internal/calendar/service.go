package calendar

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// Range keywords accepted by the events endpoint.
const (
	RangeToday    = "today"
	RangeTomorrow = "tomorrow"
	RangeWeek     = "week"
)

// Client is the CalDAV surface the aggregator needs; *CalDAVClient
// implements it, tests substitute it.
type Client interface {
	Discover(ctx context.Context) ([]CalendarRef, error)
	Report(ctx context.Context, cal CalendarRef, start, end time.Time) ([]string, error)
}

// Service aggregates events across all discovered calendars.
type Service struct {
	client Client

	// now supplies the reference instant; its location defines local
	// midnight for range windows and bare-date parsing.
	now func() time.Time
}

// NewService creates a calendar Service.
func NewService(client Client) *Service {
	return &Service{
		client: client,
		now:    time.Now,
	}
}

// Events discovers the user's calendars, fetches events in the window
// named by rangeKeyword (today, tomorrow, or week; anything else means
// today), and returns them merged and sorted by start time.
//
// A calendar whose fetch fails is logged and skipped; only a discovery
// failure aborts the whole aggregation.
func (s *Service) Events(ctx context.Context, rangeKeyword string) ([]Event, error) {
	now := s.now()
	start, end := rangeWindow(rangeKeyword, now)

	calendars, err := s.client.Discover(ctx)
	if err != nil {
		return nil, err
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		events = []Event{}
	)

	for _, cal := range calendars {
		cal := cal
		wg.Add(1)
		go func() {
			defer wg.Done()

			blocks, err := s.client.Report(ctx, cal, start, end)
			if err != nil {
				// Log and continue; one broken calendar must not take
				// down the whole aggregation.
				log.Printf("calendar: could not fetch events from %s: %v", cal.Name, err)
				return
			}

			parsed := make([]Event, 0, len(blocks))
			for _, block := range blocks {
				ev, err := parseEvent(block, now.Location())
				if err != nil {
					log.Printf("calendar: skipping unparseable event in %s: %v", cal.Name, err)
					continue
				}
				ev.Calendar = cal.Name
				parsed = append(parsed, ev)
			}

			mu.Lock()
			events = append(events, parsed...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	sort.Slice(events, func(i, j int) bool {
		return events[i].start.Before(events[j].start)
	})

	return events, nil
}

// rangeWindow maps a range keyword to its [start, end] instant pair:
// local midnight through 23:59:59.999 of the last covered day.
func rangeWindow(keyword string, now time.Time) (time.Time, time.Time) {
	startDay, endDay := now, now

	switch keyword {
	case RangeTomorrow:
		startDay = now.AddDate(0, 0, 1)
		endDay = startDay
	case RangeWeek:
		endDay = now.AddDate(0, 0, 7)
	}

	loc := now.Location()
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, loc)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999e6, loc)
	return start, end
}
