package hydrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/itingen/internal"
)

// WeatherSource looks up typical conditions for a place on a date. A zero
// Weather with a nil error means the source has no reading.
type WeatherSource interface {
	Name() string
	Typical(ctx context.Context, location string, date time.Time) (internal.Weather, error)
}

// revisioned is implemented by sources whose readings come from data that
// can change between runs. The revision is part of every cache key.
type revisioned interface {
	Revision() string
}

// ClimateTable is a WeatherSource backed by monthly climate normals kept in
// a YAML file next to the trip.
type ClimateTable struct {
	Places []ClimatePlace `yaml:"places"`
}

// ClimatePlace holds the normals for one place. Match lists lower-case
// substrings that identify the place in an event location.
type ClimatePlace struct {
	Name   string          `yaml:"name"`
	Match  []string        `yaml:"match"`
	Months map[int]Reading `yaml:"months"`
}

// Reading is one month's typical weather.
type Reading struct {
	HighF      *float64 `yaml:"high_f"`
	LowF       *float64 `yaml:"low_f"`
	Conditions string   `yaml:"conditions"`
}

// LoadClimateTable reads a climate table file.
func LoadClimateTable(path string) (*ClimateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read climate table: %w", err)
	}
	return ParseClimateTable(data)
}

// ParseClimateTable decodes a climate table.
func ParseClimateTable(data []byte) (*ClimateTable, error) {
	var t ClimateTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, &internal.ParseError{Source: "yaml", Key: "climate", Err: err}
	}
	for i, p := range t.Places {
		for month := range p.Months {
			if month < 1 || month > 12 {
				return nil, &internal.ParseError{Source: "yaml", Key: p.Name, Err: fmt.Errorf("invalid month %d", month)}
			}
		}
		if len(p.Match) == 0 && p.Name != "" {
			t.Places[i].Match = []string{strings.ToLower(p.Name)}
		}
	}
	return &t, nil
}

// Name implements WeatherSource.
func (t *ClimateTable) Name() string {
	return "climate_table"
}

// Revision fingerprints the table contents, so editing the file
// invalidates cached readings.
func (t *ClimateTable) Revision() string {
	fp, err := internal.Fingerprint(t.Places)
	if err != nil {
		return ""
	}
	return fp
}

// Typical implements WeatherSource. The first place whose match string
// occurs in location wins.
func (t *ClimateTable) Typical(_ context.Context, location string, date time.Time) (internal.Weather, error) {
	loc := strings.ToLower(location)
	for _, p := range t.Places {
		for _, m := range p.Match {
			m = strings.ToLower(strings.TrimSpace(m))
			if m == "" || !strings.Contains(loc, m) {
				continue
			}
			r, ok := p.Months[int(date.Month())]
			if !ok {
				return internal.Weather{}, nil
			}
			return internal.Weather{HighF: r.HighF, LowF: r.LowF, Conditions: r.Conditions}, nil
		}
	}
	return internal.Weather{}, nil
}

// weatherText adapts a WeatherSource to the text cache: a reading is stored
// as its JSON encoding.
type weatherText struct {
	source   WeatherSource
	location string
	date     time.Time
}

func (w weatherText) GenerateText(ctx context.Context, _ TextRequest) (string, error) {
	reading, err := w.source.Typical(ctx, w.location, w.date)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(reading)
	if err != nil {
		return "", fmt.Errorf("failed to encode weather: %w", err)
	}
	return string(data), nil
}

// typicalWeather returns the cached or freshly looked-up reading for an
// event location and date key.
func (h *Hydrator) typicalWeather(ctx context.Context, location, dateKey string) (internal.Weather, error) {
	date, err := time.Parse(time.DateOnly, dateKey)
	if err != nil {
		return internal.Weather{}, nil
	}
	payload := internal.Payload{
		"task":     TaskWeather,
		"source":   h.weather.Name(),
		"location": location,
		"date":     dateKey,
	}
	if r, ok := h.weather.(revisioned); ok {
		payload["revision"] = r.Revision()
	}
	ct := &CachedText{
		Cache:     h.cache,
		Generator: weatherText{source: h.weather, location: location, date: date},
		Force:     h.cfg.Force,
		Metrics:   h.metrics,
	}
	text, err := ct.GetPayload(ctx, payload, TextRequest{Task: TaskWeather})
	if err != nil {
		return internal.Weather{}, err
	}
	var w internal.Weather
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return internal.Weather{}, &internal.ParseError{Source: "cache", Key: TaskWeather, Err: err}
	}
	return w, nil
}
