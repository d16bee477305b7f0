package export

import (
	"strings"
	"testing"

	"github.com/iksnae/itingen/internal/theme"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{
			name:     "pdf format",
			format:   "pdf",
			wantType: "PDFExporter",
			wantExt:  "pdf",
		},
		{
			name:     "markdown format",
			format:   "md",
			wantType: "MarkdownExporter",
			wantExt:  "md",
		},
		{
			name:     "markdown format long",
			format:   "markdown",
			wantType: "MarkdownExporter",
			wantExt:  "md",
		},
		{
			name:     "yaml format",
			format:   "yaml",
			wantType: "YAMLExporter",
			wantExt:  "yaml",
		},
		{
			name:     "json format",
			format:   "json",
			wantType: "JSONExporter",
			wantExt:  "json",
		},
		{
			name:     "jsonl format",
			format:   "jsonl",
			wantType: "JSONLExporter",
			wantExt:  "jsonl",
		},
		{
			name:    "unsupported format",
			format:  "docx",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format, theme.Default(), nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewExporter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if exporter != nil {
					t.Errorf("NewExporter() returned exporter %T, want nil", exporter)
				}
				return
			}

			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Exporter.Extension() = %v, want %v", got, tt.wantExt)
			}

			switch tt.wantType {
			case "PDFExporter":
				if _, ok := exporter.(*PDFExporter); !ok {
					t.Errorf("Expected PDFExporter, got %T", exporter)
				}
			case "MarkdownExporter":
				if md, ok := exporter.(*MarkdownExporter); !ok || md.Title != "Trip Itinerary" {
					t.Errorf("Expected titled MarkdownExporter, got %#v", exporter)
				}
			case "YAMLExporter":
				if _, ok := exporter.(*YAMLExporter); !ok {
					t.Errorf("Expected YAMLExporter, got %T", exporter)
				}
			case "JSONExporter":
				if _, ok := exporter.(*JSONExporter); !ok {
					t.Errorf("Expected JSONExporter, got %T", exporter)
				}
			}
		})
	}
}

func TestFormats(t *testing.T) {
	for _, format := range Formats {
		exporter, err := NewExporter(format, theme.Default(), nil)
		if err != nil {
			t.Errorf("NewExporter(%q) error = %v", format, err)
			continue
		}
		if got := exporter.Extension(); got != format {
			t.Errorf("NewExporter(%q).Extension() = %v", format, got)
		}
	}

	_, err := NewExporter("docx", theme.Default(), nil)
	if err == nil || !strings.Contains(err.Error(), "pdf, md, yaml, json, jsonl") {
		t.Errorf("NewExporter(docx) error = %v, want the supported formats listed", err)
	}
}
