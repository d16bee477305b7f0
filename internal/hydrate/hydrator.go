package hydrate

import (
	"context"
	"errors"
	"strings"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/imaging"
	"github.com/iksnae/itingen/internal/metrics"
)

// Config selects the steps a Hydrator runs.
type Config struct {
	Model      string
	Banners    bool
	Thumbnails bool
	Narratives bool
	// Force regenerates every asset, replacing cached copies.
	Force bool
	// BestEffort logs failed assets and carries on without them.
	BestEffort bool
	Image      imaging.Options
}

// Hydrator runs the enabled steps over each day in order: per event weather,
// thumbnail and narrative, then the day banner.
type Hydrator struct {
	cache   *internal.AssetCache
	images  ImageGenerator
	text    TextGenerator
	weather WeatherSource
	metrics *metrics.Recorder
	cfg     Config
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithWeather enables weather enrichment from src.
func WithWeather(src WeatherSource) Option {
	return func(h *Hydrator) {
		h.weather = src
	}
}

// WithMetrics records cache lookups and generations on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(h *Hydrator) {
		h.metrics = m
	}
}

// NewHydrator creates a hydrator. Steps whose generator is nil are skipped.
func NewHydrator(cache *internal.AssetCache, images ImageGenerator, text TextGenerator, cfg Config, opts ...Option) *Hydrator {
	if cfg.Image == (imaging.Options{}) {
		cfg.Image = imaging.DefaultOptions()
	}
	h := &Hydrator{cache: cache, images: images, text: text, cfg: cfg}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hydrate returns enriched copies of days. The input is not modified.
func (h *Hydrator) Hydrate(ctx context.Context, days []internal.TimelineDay) ([]internal.TimelineDay, error) {
	out := make([]internal.TimelineDay, 0, len(days))
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hydrated, err := h.hydrateDay(ctx, day)
		if err != nil {
			return nil, err
		}
		out = append(out, hydrated)
	}
	return out, nil
}

func (h *Hydrator) hydrateDay(ctx context.Context, day internal.TimelineDay) (internal.TimelineDay, error) {
	events := make([]internal.Event, len(day.Events))
	for i, e := range day.Events {
		var err error
		if e, err = h.hydrateEvent(ctx, e); err != nil {
			return day, err
		}
		events[i] = e
	}
	day = day.WithEvents(events).WithEventWeather()

	if h.cfg.Banners && h.images != nil && !day.IsUnscheduled() && day.BannerImagePath == "" {
		path, err := h.imageStep(ctx, ImageRequest{
			Task:   TaskBanner,
			Model:  h.cfg.Model,
			Prompt: BannerPrompt(day),
			Aspect: imaging.AspectBanner,
		})
		if err := h.tolerate(err, "banner for "+day.Date); err != nil {
			return day, err
		}
		if path != "" {
			day = day.WithBanner(path)
		}
	}
	return day, nil
}

func (h *Hydrator) hydrateEvent(ctx context.Context, e internal.Event) (internal.Event, error) {
	if err := ctx.Err(); err != nil {
		return e, err
	}
	location := strings.TrimSpace(e.Location)

	if h.weather != nil && !e.HasWeather() && location != "" {
		if date := internal.DateKey(e); date != internal.UnscheduledDate {
			w, err := h.typicalWeather(ctx, location, date)
			if err := h.tolerate(err, "weather for "+e.Heading); err != nil {
				return e, err
			}
			if w.HighF != nil || w.Conditions != "" {
				e = e.WithWeather(w)
			}
		}
	}

	if h.cfg.Thumbnails && h.images != nil && e.ImagePath == "" && (location != "" || e.TravelTo != "") {
		path, err := h.imageStep(ctx, ImageRequest{
			Task:   TaskThumbnail,
			Model:  h.cfg.Model,
			Prompt: ThumbnailPrompt(e),
			Aspect: imaging.AspectSquare,
		})
		if err := h.tolerate(err, "thumbnail for "+e.Heading); err != nil {
			return e, err
		}
		if path != "" {
			e = e.WithImagePath(path)
		}
	}

	if h.cfg.Narratives && h.text != nil && e.Narrative == "" && strings.TrimSpace(e.Heading) != "" {
		ct := &CachedText{Cache: h.cache, Generator: h.text, Force: h.cfg.Force, Metrics: h.metrics}
		text, err := ct.Get(ctx, TextRequest{
			Task:   TaskNarrative,
			Model:  h.cfg.Model,
			Prompt: NarrativePrompt(e),
		})
		if err := h.tolerate(err, "narrative for "+e.Heading); err != nil {
			return e, err
		}
		if text != "" {
			e = e.WithNarrative(text)
		}
	}
	return e, nil
}

func (h *Hydrator) imageStep(ctx context.Context, req ImageRequest) (string, error) {
	ci := &CachedImage{
		Cache:     h.cache,
		Generator: h.images,
		Options:   h.cfg.Image,
		Force:     h.cfg.Force,
		Metrics:   h.metrics,
	}
	return ci.Get(ctx, req)
}

// tolerate swallows err in best-effort mode. Cancellation always propagates.
func (h *Hydrator) tolerate(err error, what string) error {
	if err == nil {
		return nil
	}
	if !h.cfg.BestEffort || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	internal.LogWarn("skipping %s: %v", what, err)
	return nil
}
