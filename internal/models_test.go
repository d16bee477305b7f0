package internal

import (
	"testing"
)

func TestEventWithHelpersCopy(t *testing.T) {
	high := 70.0
	original := Event{Heading: "Hike", Who: []string{"alice"}, WeatherHigh: &high}

	withImage := original.WithImagePath("/cache/images/abc.png")
	withImage.Who[0] = "mallory"
	*withImage.WeatherHigh = 10

	if original.ImagePath != "" {
		t.Errorf("original ImagePath = %q, want empty", original.ImagePath)
	}
	if original.Who[0] != "alice" {
		t.Errorf("original Who mutated to %v", original.Who)
	}
	if *original.WeatherHigh != 70 {
		t.Errorf("original WeatherHigh mutated to %v", *original.WeatherHigh)
	}

	narrated := original.WithNarrative("A steep climb.")
	if narrated.Narrative != "A steep climb." || original.Narrative != "" {
		t.Errorf("WithNarrative() = %q, original = %q", narrated.Narrative, original.Narrative)
	}
}

func TestEventWithWeather(t *testing.T) {
	high, low := 60.0, 45.0
	e := Event{Heading: "Beach"}.WithWeather(Weather{HighF: &high, LowF: &low, Conditions: "Breezy"})

	if !e.HasWeather() {
		t.Fatal("HasWeather() = false after WithWeather")
	}
	if *e.WeatherLow != 45 || e.WeatherConditions != "Breezy" {
		t.Errorf("WithWeather() = %+v", e)
	}
}

func TestNormalizedKind(t *testing.T) {
	if got := (Event{Kind: "  Flight_Departure "}).NormalizedKind(); got != "flight_departure" {
		t.Errorf("NormalizedKind() = %q", got)
	}
}

func TestTimelineDayHelpers(t *testing.T) {
	day := TimelineDay{Date: "2026-01-01"}

	parsed, ok := day.ParsedDate()
	if !ok || parsed.Day() != 1 {
		t.Errorf("ParsedDate() = %v, %v", parsed, ok)
	}

	withBanner := day.WithBanner("/b.png")
	if day.BannerImagePath != "" || withBanner.BannerImagePath != "/b.png" {
		t.Errorf("WithBanner() mutated receiver or lost path")
	}

	if _, ok := (TimelineDay{Date: UnscheduledDate}).ParsedDate(); ok {
		t.Error("ParsedDate() should fail for the unscheduled day")
	}
}

func TestPrimaryLocation(t *testing.T) {
	tests := []struct {
		name      string
		locations []string
		want      string
	}{
		{"none", []string{"", " "}, ""},
		{"most common", []string{"Carmel", "Monterey", "Carmel"}, "Carmel"},
		{"tie goes to first seen", []string{"Carmel", "Monterey", "Monterey", "Carmel"}, "Carmel"},
		{"trimmed", []string{" Big Sur ", "Big Sur"}, "Big Sur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var day TimelineDay
			for _, loc := range tt.locations {
				day.Events = append(day.Events, Event{Location: loc})
			}
			if got := day.PrimaryLocation(); got != tt.want {
				t.Errorf("PrimaryLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}
