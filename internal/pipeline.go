package internal

import (
	"sort"
	"strings"
)

// SortChronologically returns the events ordered by their UTC timestamp.
// Events without a parseable timestamp go last. Ties keep input order.
func SortChronologically(events []Event) []Event {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, okI := ParseTimestamp(sorted[i].TimeUTC)
		tj, okJ := ParseTimestamp(sorted[j].TimeUTC)
		if !okI || !okJ {
			return okI && !okJ
		}
		return ti.Before(tj)
	})
	return sorted
}

// FilterByPerson keeps events that list person in Who, plus generic events
// with an empty Who. An empty person disables filtering.
func FilterByPerson(events []Event, person string) []Event {
	person = strings.TrimSpace(person)
	if person == "" {
		return events
	}
	var kept []Event
	for _, e := range events {
		if len(e.Who) == 0 {
			kept = append(kept, e)
			continue
		}
		for _, who := range e.Who {
			if strings.EqualFold(strings.TrimSpace(who), person) {
				kept = append(kept, e)
				break
			}
		}
	}
	return kept
}

// Deduplicate drops events that repeat an earlier one field for field.
// This happens when the same day file is listed under two source formats.
// Events that differ in any field, such as who attends, are all kept.
func Deduplicate(events []Event) []Event {
	seen := make(map[string]bool)
	var unique []Event

	for _, e := range events {
		fp, err := Fingerprint(e)
		if err != nil {
			unique = append(unique, e)
			continue
		}
		if !seen[fp] {
			seen[fp] = true
			unique = append(unique, e)
		}
	}

	return unique
}

// DefaultTimezone fills in tz for events that name no zone of their own.
func DefaultTimezone(events []Event, tz string) []Event {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return events
	}
	out := make([]Event, len(events))
	for i, e := range events {
		if strings.TrimSpace(e.Timezone) == "" {
			e = e.clone()
			e.Timezone = tz
		}
		out[i] = e
	}
	return out
}

// ApplyVenues resolves events that name a venue. An event without a
// location takes the venue's canonical name, and a location given as one
// of the venue's aliases is replaced by it. Unknown venue ids are left as
// they are.
func ApplyVenues(events []Event, venues map[string]Venue) []Event {
	if len(venues) == 0 {
		return events
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e
		id := strings.TrimSpace(e.VenueID)
		if id == "" {
			continue
		}
		v, ok := venues[id]
		if !ok {
			LogDebug("Event %q names unknown venue %s", e.Heading, id)
			continue
		}
		if strings.TrimSpace(e.Location) == "" || (v.Matches(e.Location) && e.Location != v.CanonicalName) {
			e = e.clone()
			e.Location = v.CanonicalName
			out[i] = e
		}
	}
	return out
}

// DescribeTransitions sets TransitionFromPrev on events that have none,
// from where the previous event ended to where this one happens. Events
// must already be in order. The first event, events at the same place as
// their predecessor and events with no known place on either side are
// left alone.
func DescribeTransitions(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e
		if i == 0 || strings.TrimSpace(e.TransitionFromPrev) != "" {
			continue
		}
		from := strings.TrimSpace(firstNonEmpty(events[i-1].Location, events[i-1].TravelTo))
		to := strings.TrimSpace(firstNonEmpty(e.Location, e.TravelFrom, e.TravelTo))
		if from == "" || to == "" || strings.EqualFold(from, to) {
			continue
		}
		e = e.clone()
		e.TransitionFromPrev = "Move from " + from + " to " + to
		out[i] = e
	}
	return out
}
