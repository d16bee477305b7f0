package internal

import (
	"strings"
	"time"
)

// UnscheduledDate is the date key for events with no derivable date.
// It always sorts after every real date.
const UnscheduledDate = "TBD"

// Event is a single itinerary entry as supplied by an event source.
// Treat it as a value: enrichment goes through the With* helpers, which
// return a modified copy and leave the receiver untouched.
type Event struct {
	Heading            string   `json:"event_heading,omitempty" yaml:"event_heading,omitempty"`
	Kind               string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Location           string   `json:"location,omitempty" yaml:"location,omitempty"`
	Date               string   `json:"date,omitempty" yaml:"date,omitempty"`
	TimeLocal          string   `json:"time_local,omitempty" yaml:"time_local,omitempty"`
	TimeUTC            string   `json:"time_utc,omitempty" yaml:"time_utc,omitempty"`
	Timezone           string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	NoLaterThan        string   `json:"no_later_than,omitempty" yaml:"no_later_than,omitempty"`
	DurationSeconds    int      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	Who                []string `json:"who,omitempty" yaml:"who,omitempty"`
	DependsOn          []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Narrative          string   `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	Notes              string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	ImagePath          string   `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	TransitionFromPrev string   `json:"transition_from_prev,omitempty" yaml:"transition_from_prev,omitempty"`
	TravelFrom         string   `json:"travel_from,omitempty" yaml:"travel_from,omitempty"`
	TravelTo           string   `json:"travel_to,omitempty" yaml:"travel_to,omitempty"`
	DistanceText       string   `json:"distance_text,omitempty" yaml:"distance_text,omitempty"`
	DurationText       string   `json:"duration_text,omitempty" yaml:"duration_text,omitempty"`
	HardStop           bool     `json:"hard_stop,omitempty" yaml:"hard_stop,omitempty"`
	CoordinationPoint  bool     `json:"coordination_point,omitempty" yaml:"coordination_point,omitempty"`
	Inferred           bool     `json:"inferred,omitempty" yaml:"inferred,omitempty"`
	VenueID            string   `json:"venue_id,omitempty" yaml:"venue_id,omitempty"`

	WeatherHigh       *float64 `json:"weather_temp_high,omitempty" yaml:"weather_temp_high,omitempty"`
	WeatherLow        *float64 `json:"weather_temp_low,omitempty" yaml:"weather_temp_low,omitempty"`
	WeatherConditions string   `json:"weather_conditions,omitempty" yaml:"weather_conditions,omitempty"`
}

// Weather is a typical-conditions reading for one location and date.
type Weather struct {
	HighF      *float64 `json:"high_temp_f,omitempty"`
	LowF       *float64 `json:"low_temp_f,omitempty"`
	Conditions string   `json:"conditions,omitempty"`
}

// NormalizedKind returns the kind trimmed and lower-cased.
func (e Event) NormalizedKind() string {
	return strings.ToLower(strings.TrimSpace(e.Kind))
}

// HasWeather reports whether the event carries weather readings.
func (e Event) HasWeather() bool {
	return e.WeatherHigh != nil
}

// clone returns a copy that shares no slices or pointers with e.
func (e Event) clone() Event {
	c := e
	if e.Who != nil {
		c.Who = append([]string(nil), e.Who...)
	}
	if e.DependsOn != nil {
		c.DependsOn = append([]string(nil), e.DependsOn...)
	}
	if e.WeatherHigh != nil {
		v := *e.WeatherHigh
		c.WeatherHigh = &v
	}
	if e.WeatherLow != nil {
		v := *e.WeatherLow
		c.WeatherLow = &v
	}
	return c
}

// WithImagePath returns a copy of the event pointing at a thumbnail.
func (e Event) WithImagePath(path string) Event {
	c := e.clone()
	c.ImagePath = path
	return c
}

// WithNarrative returns a copy of the event carrying generated narrative text.
func (e Event) WithNarrative(text string) Event {
	c := e.clone()
	c.Narrative = text
	return c
}

// WithWeather returns a copy of the event carrying a weather reading.
func (e Event) WithWeather(w Weather) Event {
	c := e.clone()
	c.WeatherHigh = w.HighF
	c.WeatherLow = w.LowF
	c.WeatherConditions = w.Conditions
	return c
}

// TimelineDay is one calendar day of events plus the markers derived while
// walking the itinerary in order.
type TimelineDay struct {
	Date                 string   `json:"date" yaml:"date"`
	DayHeader            string   `json:"day_header" yaml:"day_header"`
	Events               []Event  `json:"events" yaml:"events"`
	WakeUpLocation       string   `json:"wake_up_location,omitempty" yaml:"wake_up_location,omitempty"`
	FirstEventTargetTime string   `json:"first_event_target_time,omitempty" yaml:"first_event_target_time,omitempty"`
	FirstEventTitle      string   `json:"first_event_title,omitempty" yaml:"first_event_title,omitempty"`
	SleepLocation        string   `json:"sleep_location,omitempty" yaml:"sleep_location,omitempty"`
	BannerImagePath      string   `json:"banner_image_path,omitempty" yaml:"banner_image_path,omitempty"`
	WeatherHigh          *float64 `json:"weather_high,omitempty" yaml:"weather_high,omitempty"`
	WeatherLow           *float64 `json:"weather_low,omitempty" yaml:"weather_low,omitempty"`
	WeatherConditions    string   `json:"weather_conditions,omitempty" yaml:"weather_conditions,omitempty"`
}

// IsUnscheduled reports whether the day collects events without a date.
func (d TimelineDay) IsUnscheduled() bool {
	return d.Date == UnscheduledDate
}

// HasWeather reports whether any weather reading was aggregated for the day.
func (d TimelineDay) HasWeather() bool {
	return d.WeatherHigh != nil || d.WeatherConditions != ""
}

// ParsedDate returns the calendar date of the day, if it has one.
func (d TimelineDay) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PrimaryLocation returns the most frequent event location of the day. Ties
// go to the location seen first.
func (d TimelineDay) PrimaryLocation() string {
	counts := make(map[string]int)
	var order []string
	for _, e := range d.Events {
		loc := strings.TrimSpace(e.Location)
		if loc == "" {
			continue
		}
		if counts[loc] == 0 {
			order = append(order, loc)
		}
		counts[loc]++
	}
	best := ""
	for _, loc := range order {
		if counts[loc] > counts[best] {
			best = loc
		}
	}
	return best
}

// WithBanner returns a copy of the day with a banner image attached.
func (d TimelineDay) WithBanner(path string) TimelineDay {
	c := d
	c.BannerImagePath = path
	return c
}

// WithEventWeather returns a copy of the day carrying the weather of its
// first event that has a reading. Days without one are returned unchanged.
func (d TimelineDay) WithEventWeather() TimelineDay {
	for _, e := range d.Events {
		if e.HasWeather() {
			c := d
			c.WeatherHigh = e.WeatherHigh
			c.WeatherLow = e.WeatherLow
			c.WeatherConditions = e.WeatherConditions
			return c
		}
	}
	return d
}

// WithEvents returns a copy of the day holding the given events.
func (d TimelineDay) WithEvents(events []Event) TimelineDay {
	c := d
	c.Events = events
	return c
}

// Payload is the structured description of a generation request. Its
// fingerprint is the cache key for the generated asset.
type Payload map[string]any
