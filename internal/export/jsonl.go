package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/itingen/internal"
)

// JSONLExporter writes one event per line, tagged with the day it was
// grouped under.
type JSONLExporter struct{}

type jsonlRecord struct {
	Day string `json:"day"`
	internal.Event
}

// Export implements Exporter.
func (e *JSONLExporter) Export(ctx context.Context, days []internal.TimelineDay, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, event := range day.Events {
			if err := enc.Encode(jsonlRecord{Day: day.Date, Event: event}); err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
