package internal

import (
	"sort"
	"strings"
	"time"
)

const (
	dateLayout   = "2006-01-02"
	headerLayout = "2006-01-02 (Monday)"

	// UnscheduledHeader labels the day that collects undated events.
	UnscheduledHeader = "Unscheduled"

	// DefaultLocation is shown when no wake-up or sleep location is known.
	DefaultLocation = "your current location"

	overnightFlightSeconds = 6 * 60 * 60
)

// timestampLayouts are the accepted forms of Event.TimeUTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

// Aggregate groups events into calendar days and derives the per-day markers.
// Events keep their relative input order inside a day; days come out in
// ascending date order with the unscheduled day last. The sleep location is
// folded left to right across days, so each day sees every earlier day's
// lodging.
func Aggregate(events []Event) []TimelineDay {
	groups := make(map[string][]Event)
	var keys []string
	for _, e := range events {
		key := DateKey(e)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], e)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a == UnscheduledDate || b == UnscheduledDate {
			return b == UnscheduledDate && a != UnscheduledDate
		}
		return a < b
	})

	days := make([]TimelineDay, 0, len(keys))
	lastSleep := ""
	for _, key := range keys {
		dayEvents := groups[key]
		day := TimelineDay{
			Date:      key,
			DayHeader: dayHeader(key),
			Events:    dayEvents,
		}

		first := dayEvents[0]
		day.WakeUpLocation = lastSleep
		if day.WakeUpLocation == "" {
			day.WakeUpLocation = firstNonEmpty(first.Location, first.TravelFrom, DefaultLocation)
		}

		if target := firstNonEmpty(first.TimeLocal, first.NoLaterThan); target != "" {
			if i := strings.Index(target, " "); i >= 0 {
				target = strings.TrimSpace(target[i+1:])
			}
			day.FirstEventTargetTime = target
			day.FirstEventTitle = firstNonEmpty(first.Heading, first.Description, "your first event")
		}

		if sleep := sleepLocation(dayEvents); sleep != "" {
			lastSleep = sleep
		}
		day.SleepLocation = firstNonEmpty(lastSleep, DefaultLocation)

		days = append(days, day.WithEventWeather())
	}
	return days
}

// DateKey returns the calendar day an event belongs to: its explicit date,
// else the date part of its timestamp, else UnscheduledDate.
func DateKey(e Event) string {
	if d := strings.TrimSpace(e.Date); d != "" {
		return d
	}
	if t, ok := ParseTimestamp(e.TimeUTC); ok {
		return t.Format(dateLayout)
	}
	return UnscheduledDate
}

// ParseTimestamp parses an event timestamp in any of the accepted layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sleepLocation returns where the day's events put the traveler to rest, or
// "" when no event says so. The last matching event wins.
func sleepLocation(events []Event) string {
	sleep := ""
	for _, e := range events {
		switch e.NormalizedKind() {
		case "lodging_checkin", "lodging_stay":
			if e.Location != "" {
				sleep = e.Location
			}
		case "flight_departure":
			if e.DurationSeconds >= overnightFlightSeconds {
				sleep = "on the plane (" + e.TravelFrom + " -> " + e.TravelTo + ")"
			}
		}
	}
	return sleep
}

func dayHeader(key string) string {
	if key == UnscheduledDate {
		return UnscheduledHeader
	}
	t, err := time.Parse(dateLayout, key)
	if err != nil {
		return key
	}
	return t.Format(headerLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
