package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/iksnae/itingen/internal"
)

// JSONExporter dumps the aggregated timeline as pretty-printed JSON.
type JSONExporter struct{}

// Export implements Exporter.
func (e *JSONExporter) Export(_ context.Context, days []internal.TimelineDay, w io.Writer) error {
	if days == nil {
		days = []internal.TimelineDay{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(days)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
