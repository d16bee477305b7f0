// Package metrics counts what a generation run did: cache traffic, asset
// generations and rendered output. A run can dump the counters to a
// Prometheus textfile for the node exporter to pick up.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the counters of one run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	generations    *prometheus.CounterVec
	generationErrs *prometheus.CounterVec
	documents      *prometheus.CounterVec
	pages          prometheus.Counter
	events         prometheus.Counter
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// New creates a Recorder on its own registry, so Go runtime collectors
// never end up in the textfile.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "itingen",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	r.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "cache_lookups_total",
		Help:      "Asset cache lookups by namespace and result",
	}, []string{"namespace", "result"})
	r.generations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "generations_total",
		Help:      "Generator calls by task",
	}, []string{"task"})
	r.generationErrs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "generation_errors_total",
		Help:      "Failed generator calls by task",
	}, []string{"task"})
	r.documents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "documents_written_total",
		Help:      "Documents written by format",
	}, []string{"format"})
	r.pages = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "pdf_pages_total",
		Help:      "PDF pages rendered",
	})
	r.events = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "events_rendered_total",
		Help:      "Events passed to an exporter",
	})
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// CacheHit counts a cache hit in namespace ("text" or "images").
func (r *Recorder) CacheHit(namespace string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(namespace, "hit").Inc()
}

// CacheMiss counts a cache miss in namespace.
func (r *Recorder) CacheMiss(namespace string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(namespace, "miss").Inc()
}

// Generation counts one generator call for task.
func (r *Recorder) Generation(task string) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(task).Inc()
}

// GenerationFailed counts one failed generator call for task.
func (r *Recorder) GenerationFailed(task string) {
	if r == nil {
		return
	}
	r.generationErrs.WithLabelValues(task).Inc()
}

// DocumentWritten counts a finished document.
func (r *Recorder) DocumentWritten(format string, events int) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(format).Inc()
	r.events.Add(float64(events))
}

// PagesRendered adds n rendered PDF pages.
func (r *Recorder) PagesRendered(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.pages.Add(float64(n))
}

// WriteTextfile writes every counter to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
