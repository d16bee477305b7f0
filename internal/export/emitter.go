package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/metrics"
)

// DayHydrator attaches generated assets (banners, thumbnails, narratives,
// weather) to aggregated days before they are rendered.
type DayHydrator interface {
	Hydrate(ctx context.Context, days []internal.TimelineDay) ([]internal.TimelineDay, error)
}

// Emitter turns events into a written document: aggregate, hydrate, export.
type Emitter struct {
	exporter Exporter
	hydrator DayHydrator
	metrics  *metrics.Recorder
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithHydrator runs h between aggregation and export.
func WithHydrator(h DayHydrator) EmitterOption {
	return func(e *Emitter) {
		e.hydrator = h
	}
}

// WithMetrics records written documents on m.
func WithMetrics(m *metrics.Recorder) EmitterOption {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// NewEmitter creates an emitter writing with exporter.
func NewEmitter(exporter Exporter, opts ...EmitterOption) *Emitter {
	e := &Emitter{exporter: exporter}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit writes events to outputPath and returns the path written. The
// exporter's extension is appended when outputPath has none. Cancellation
// is checked between stages only.
func (e *Emitter) Emit(ctx context.Context, events []internal.Event, outputPath string) (string, error) {
	runID := uuid.NewString()
	logger := internal.Logger().With("run", runID[:8])
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	days := internal.Aggregate(events)
	logger.Debug("aggregated timeline", "events", len(events), "days", len(days))

	if e.hydrator != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		hydrated, err := e.hydrator.Hydrate(ctx, days)
		if err != nil {
			return "", fmt.Errorf("failed to generate assets: %w", err)
		}
		days = hydrated
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := e.exporter.Extension()
	path := OutputPath(outputPath, ext)
	if err := writeDocument(ctx, e.exporter, days, path); err != nil {
		return "", &internal.ExportError{Format: ext, Path: path, Err: err}
	}

	e.metrics.DocumentWritten(ext, len(events))
	logger.Info("wrote document", "path", path, "days", len(days), "took", time.Since(started).Round(time.Millisecond))
	return path, nil
}

// OutputPath appends ext to path when path has no extension.
func OutputPath(path, ext string) string {
	if filepath.Ext(path) != "" || ext == "" {
		return path
	}
	return path + "." + ext
}

// writeDocument exports into a temp file beside path and renames it into
// place, so a failed export never leaves a truncated document.
func writeDocument(ctx context.Context, exporter Exporter, days []internal.TimelineDay, path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".itingen-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = exporter.Export(ctx, days, bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
