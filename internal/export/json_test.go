package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/iksnae/itingen/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		days     []internal.TimelineDay
		wantDays int
	}{
		{
			name:     "sample itinerary",
			days:     internal.Aggregate(internal.CreateTestItinerary()),
			wantDays: 3,
		},
		{
			name:     "nil days",
			days:     nil,
			wantDays: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONExporter{}).Export(context.Background(), tt.days, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var got []internal.TimelineDay
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
			}
			if len(got) != tt.wantDays {
				t.Errorf("got %d days, want %d", len(got), tt.wantDays)
			}
			if tt.wantDays > 0 && got[0].Events[0].Heading != "Arrive SFO" {
				t.Errorf("first event = %q", got[0].Events[0].Heading)
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
