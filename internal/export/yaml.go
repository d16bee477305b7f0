package export

import (
	"context"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/itingen/internal"
)

// YAMLExporter dumps the aggregated timeline as YAML.
type YAMLExporter struct{}

// Export implements Exporter.
func (e *YAMLExporter) Export(_ context.Context, days []internal.TimelineDay, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(days)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
