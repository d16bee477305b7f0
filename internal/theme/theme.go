// Package theme holds the fixed visual language of the itinerary document:
// page geometry, palette, the event kind taxonomy and typography.
package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex parses "#RRGGBB" or "RRGGBB".
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is Hex for package-level constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the color as "#RRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGB returns the components as ints, the form the PDF canvas takes.
func (c Color) RGB() (int, int, int) {
	return int(c.R), int(c.G), int(c.B)
}

// Page is the page size and margins in points.
type Page struct {
	Width        float64
	Height       float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
}

// ContentWidth is the width between the side margins.
func (p Page) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// ContentBottom is the y coordinate of the bottom margin.
func (p Page) ContentBottom() float64 {
	return p.Height - p.MarginBottom
}

// Letter is US Letter with the document margins.
var Letter = Page{
	Width:        612,
	Height:       792,
	MarginLeft:   54,
	MarginRight:  54,
	MarginTop:    54,
	MarginBottom: 60,
}

// Theme is the complete visual configuration for one run. It is a plain
// value; overrides produce a new Theme.
type Theme struct {
	Page    Page
	Ink     Color
	Muted   Color
	Accent  Color
	Line    Color
	Warn    Color
	Surface Color
	Title   string
}

// Default returns the standard theme.
func Default() Theme {
	return Theme{
		Page:    Letter,
		Ink:     MustHex("#111827"),
		Muted:   MustHex("#6B7280"),
		Accent:  MustHex("#0F766E"),
		Line:    MustHex("#E5E7EB"),
		Warn:    MustHex("#B91C1C"),
		Surface: MustHex("#F8FAFC"),
		Title:   "Trip Itinerary",
	}
}

// WithPalette returns a copy with named colors replaced. Recognized names
// are ink, muted, accent, line, warn and surface; empty values are skipped.
func (t Theme) WithPalette(overrides map[string]string) (Theme, error) {
	out := t
	for name, value := range overrides {
		if strings.TrimSpace(value) == "" {
			continue
		}
		c, err := Hex(value)
		if err != nil {
			return t, fmt.Errorf("theme.%s: %w", name, err)
		}
		switch strings.ToLower(name) {
		case "ink":
			out.Ink = c
		case "muted":
			out.Muted = c
		case "accent":
			out.Accent = c
		case "line":
			out.Line = c
		case "warn":
			out.Warn = c
		case "surface":
			out.Surface = c
		default:
			return t, fmt.Errorf("unknown theme color %q", name)
		}
	}
	return out, nil
}

// WithTitle returns a copy with a different document title.
func (t Theme) WithTitle(title string) Theme {
	if strings.TrimSpace(title) != "" {
		t.Title = title
	}
	return t
}
