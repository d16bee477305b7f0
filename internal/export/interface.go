package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/theme"
)

// Exporter renders aggregated timeline days in one output format.
type Exporter interface {
	Export(ctx context.Context, days []internal.TimelineDay, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names.
var Formats = []string{"pdf", "md", "yaml", "json", "jsonl"}

// NewExporter creates an exporter for format. fonts is only used by the
// PDF exporter and may be nil.
func NewExporter(format string, t theme.Theme, fonts *theme.Resolver) (Exporter, error) {
	switch format {
	case "pdf":
		return NewPDFExporter(t, fonts), nil
	case "md", "markdown":
		return &MarkdownExporter{Title: t.Title}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}
