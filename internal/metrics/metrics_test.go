package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.CacheHit("images")
	r.CacheHit("images")
	r.CacheMiss("text")
	r.Generation("day_banner")
	r.GenerationFailed("day_banner")
	r.DocumentWritten("pdf", 5)
	r.PagesRendered(3)
	r.PagesRendered(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("images", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("text", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.generations.WithLabelValues("day_banner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.generationErrs.WithLabelValues("day_banner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("pdf")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.events))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.pages))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.CacheHit("text")
		r.CacheMiss("text")
		r.Generation("narrative")
		r.GenerationFailed("narrative")
		r.DocumentWritten("md", 1)
		r.PagesRendered(1)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New(WithNamespace("trip"))
	r.Generation("event_thumbnail")

	path := filepath.Join(t.TempDir(), "itingen.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `trip_generations_total{task="event_thumbnail"} 1`), text)
	assert.NotContains(t, text, "go_goroutines")
}
