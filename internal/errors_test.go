package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	originalErr := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "storage",
			err:      &StorageError{Path: "/cache/text/abc.txt", Op: "write", Err: originalErr},
			contains: []string{"storage error", "write", "/cache/text/abc.txt"},
		},
		{
			name:     "parse",
			err:      &ParseError{Source: "markdown", Key: "events/day1.md", Err: originalErr},
			contains: []string{"parse error", "markdown", "events/day1.md"},
		},
		{
			name:     "generation",
			err:      &GenerationError{Task: "banner", Fingerprint: "f00d", Err: originalErr},
			contains: []string{"generation error", "banner", "f00d"},
		},
		{
			name:     "export",
			err:      &ExportError{Format: "pdf", Path: "/out/trip.pdf", Err: originalErr},
			contains: []string{"export error", "pdf", "/out/trip.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, should contain %q", msg, want)
				}
			}
			if !errors.Is(tt.err, originalErr) {
				t.Error("Unwrap() should return original error")
			}
		})
	}
}

func TestStorageErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("failed to cache banner: %w", &StorageError{Path: "/x", Op: "rename", Err: errors.New("busy")})

	var storageErr *StorageError
	if !errors.As(wrapped, &storageErr) {
		t.Fatal("errors.As should find StorageError through wrapping")
	}
	if storageErr.Op != "rename" {
		t.Errorf("Op = %q, want rename", storageErr.Op)
	}
}
