package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Normalizer converts loosely typed source fields into Event records
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeFields builds an event from string key/value pairs, as found in
// markdown day files. Unknown keys are ignored. A malformed duration or
// temperature is an error; every other value is taken as written.
func (n *Normalizer) NormalizeFields(fields map[string]string) (Event, error) {
	var e Event
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(fields[key])
		if err := n.apply(&e, strings.ToLower(strings.TrimSpace(key)), value); err != nil {
			return Event{}, &ParseError{Source: "event", Key: key, Err: err}
		}
	}
	return e, nil
}

// NormalizeMap builds an event from a decoded YAML or JSON document.
func (n *Normalizer) NormalizeMap(doc map[string]any) (Event, error) {
	fields := make(map[string]string, len(doc))
	for k, v := range doc {
		fields[k] = stringify(v)
	}
	return n.NormalizeFields(fields)
}

func (n *Normalizer) apply(e *Event, key, value string) error {
	switch key {
	case "event_heading", "heading", "title":
		e.Heading = value
	case "kind":
		e.Kind = value
	case "location":
		e.Location = value
	case "date":
		e.Date = value
	case "time_local":
		e.TimeLocal = value
	case "time_utc":
		e.TimeUTC = value
	case "timezone":
		e.Timezone = value
	case "no_later_than":
		e.NoLaterThan = value
	case "duration":
		seconds, err := ParseDuration(value)
		if err != nil {
			return err
		}
		e.DurationSeconds = seconds
	case "duration_seconds":
		if value == "" {
			return nil
		}
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid duration_seconds %q", value)
		}
		e.DurationSeconds = seconds
	case "who":
		e.Who = splitList(value)
	case "depends_on":
		e.DependsOn = splitList(value)
	case "description":
		e.Description = value
	case "narrative":
		e.Narrative = value
	case "notes":
		e.Notes = value
	case "image_path":
		e.ImagePath = value
	case "transition_from_prev":
		e.TransitionFromPrev = value
	case "travel_from":
		e.TravelFrom = value
	case "travel_to":
		e.TravelTo = value
	case "distance_text":
		e.DistanceText = value
	case "duration_text":
		e.DurationText = value
	case "hard_stop":
		e.HardStop = parseFlag(value)
	case "coordination_point":
		e.CoordinationPoint = parseFlag(value)
	case "inferred":
		e.Inferred = parseFlag(value)
	case "venue_id":
		e.VenueID = value
	case "weather_temp_high", "weather_temp_low":
		if value == "" {
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", value)
		}
		if key == "weather_temp_high" {
			e.WeatherHigh = &f
		} else {
			e.WeatherLow = &f
		}
	case "weather_conditions":
		e.WeatherConditions = value
	default:
		LogDebug("Ignoring unknown event field %q", key)
	}
	return nil
}

// parseFlag accepts true/yes/y/1 in any case.
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stringify flattens a decoded document value. Lists join with commas so
// they split back the same way.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format(dateLayout)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
