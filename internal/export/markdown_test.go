package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iksnae/itingen/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		exporter *MarkdownExporter
		events   []internal.Event
		want     []string
		notWant  []string
	}{
		{
			name:     "sample itinerary",
			exporter: &MarkdownExporter{Title: "West Coast"},
			events:   internal.CreateTestItinerary(),
			want: []string{
				"# West Coast",
				"_2026-01-01 to 2026-01-02_",
				"## 2026-01-01 (Thursday)",
				"### 10am PST · Arrive SFO",
				"- **Kind**: flight_arrival",
				"- **Who**: alice, bob",
				"**Weather:** High 68°F · Low 51°F, Fog clearing by noon",
				"Sleep at: Hotel Zephyr",
				"- **Duration**: 2h 30m",
				"## Unscheduled",
				"### TBD · Buy travel adapter",
			},
		},
		{
			name:     "timezone suppressed",
			exporter: &MarkdownExporter{SuppressTimezone: true},
			events:   internal.CreateTestItinerary(),
			want:     []string{"# Trip Itinerary", "### 10am · Arrive SFO"},
			notWant:  []string{"10am PST"},
		},
		{
			name:     "narrative replaces description",
			exporter: &MarkdownExporter{},
			events: []internal.Event{
				{Heading: "Lunch", Date: "2026-02-01", Description: "Plain", Narrative: "A **lovely** lunch"},
			},
			want:    []string{"A \\*\\*lovely\\*\\* lunch"},
			notWant: []string{"Plain"},
		},
		{
			name:     "empty itinerary",
			exporter: &MarkdownExporter{},
			events:   nil,
			want:     []string{"# Trip Itinerary"},
			notWant:  []string{"##"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.exporter.Export(context.Background(), internal.Aggregate(tt.events), &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		notWant  []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:    "This is **bold** text",
			want:     []string{"\\*\\*bold\\*\\*"},
			notWant:  []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:    "This is __underlined__ text",
			want:     []string{"\\_\\_underlined\\_\\_"},
			notWant:  []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
		{
			name:    "mixed content",
			input:    "Regular text **bold** and ```code```",
			want:     []string{"\\*\\*bold\\*\\*", "```code```"},
			notWant:  []string{"**bold**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}


