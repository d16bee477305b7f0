package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"
)

// White is the border color used by BorderedImage.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// BorderedImage returns a w x h image with a white frame of the given
// thickness around a block of fill.
func BorderedImage(w, h, border int, fill color.Color) *image.NRGBA {
	img := SolidImage(w, h, White)
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

// GradientImage returns a non-uniform opaque image, useful where solid
// images would be trimmed away entirely.
func GradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 200 / max(1, w)),
				G: uint8(y * 200 / max(1, h)),
				B: 90,
				A: 255,
			})
		}
	}
	return img
}

// EncodePNG encodes img as PNG bytes
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// EncodeJPEG encodes img as JPEG bytes
func EncodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

// WritePNG encodes img into dir/name and returns the path
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	return WriteFile(t, dir, name, EncodePNG(t, img))
}

// DecodeImage decodes PNG or JPEG bytes, failing the test on error
func DecodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode image: %v", err)
	}
	return img
}

// SampleDayMarkdown is a markdown day file with day-level metadata and two
// events.
const SampleDayMarkdown = `# Day 1

- date: 2026-01-01
- timezone: PST

## Morning

### Event: Arrival
- kind: flight_arrival
- time_local: 10:00
- location: SFO
- who: alice, bob
- duration: 1h30m
- hard_stop: yes

### Event: Dinner
- kind: meal
- time_local: 19:00
- location: Zuni Cafe
- notes: Reservation under Alice
`

// SampleEventsYAML is a YAML events file with one event.
const SampleEventsYAML = `- event_heading: Ferry to Sausalito
  kind: ferry
  date: "2026-01-02"
  time_local: "11:15"
  duration: 45m
  who: [alice]
  coordination_point: true
`

// SampleClimateYAML is a climate table covering the sample trip's locations.
const SampleClimateYAML = `places:
  - name: San Francisco
    match: [sfo, san francisco, zuni]
    months:
      1: {high_f: 58, low_f: 46, conditions: Cool and foggy}
`

// SampleVenueJSON is a venue file for the ferry terminal, with a structured
// address.
const SampleVenueJSON = `{
  "venue_id": "ferry-building",
  "canonical_name": "San Francisco Ferry Building",
  "aliases": ["Ferry Building", "Ferry Terminal"],
  "address": {"street": "1 Ferry Building", "city": "San Francisco", "region": "CA"},
  "primary_cues": ["clock tower", "bay views"],
  "metadata": {"created_at": "2025-11-01T00:00:00Z", "updated_at": "2025-11-01T00:00:00Z"}
}
`

// SampleVenueEventsYAML replaces SampleEventsYAML with a ferry that names
// its venue instead of a location.
const SampleVenueEventsYAML = `- event_heading: Ferry to Sausalito
  kind: ferry
  date: "2026-01-02"
  time_local: "11:15"
  venue_id: ferry-building
`

// WriteVenueTrip is WriteTrip plus a venues directory the ferry refers to.
func WriteVenueTrip(t *testing.T) string {
	t.Helper()
	dir := WriteTrip(t)
	WriteFile(t, dir, "venues/ferry-building.json", []byte(SampleVenueJSON))
	WriteFile(t, dir, "events/extra.yaml", []byte(SampleVenueEventsYAML))
	return dir
}

// WriteTrip lays out a trip directory with a config, a markdown day, a
// YAML event list and a climate table, and returns its path.
func WriteTrip(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(CreateTempDir(t), "bay-area")
	WriteFile(t, dir, "config.yaml", []byte("title: Bay Area Weekend\ntimezone: PST\n"))
	WriteFile(t, dir, "climate.yaml", []byte(SampleClimateYAML))
	WriteFile(t, dir, "events/day1.md", []byte(SampleDayMarkdown))
	WriteFile(t, dir, "events/extra.yaml", []byte(SampleEventsYAML))
	return dir
}
