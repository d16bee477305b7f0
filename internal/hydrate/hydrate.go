// Package hydrate attaches generated assets to an aggregated timeline: day
// banners, event thumbnails, event narratives and typical weather. Every
// asset goes through the asset cache, so a given input is generated once and
// reused on later runs.
package hydrate

import (
	"context"
	"strings"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/imaging"
	"github.com/iksnae/itingen/internal/metrics"
)

// ImageRequest asks a generator for one picture.
type ImageRequest struct {
	Task   string
	Model  string
	Prompt string
	Aspect imaging.Aspect
}

// TextRequest asks a generator for one piece of prose.
type TextRequest struct {
	Task   string
	Model  string
	Prompt string
}

// ImageGenerator produces encoded image bytes (PNG, JPEG, GIF or WebP).
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error)
}

// TextGenerator produces text.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

// CachedImage is cache-or-generate for images. Generated bytes are
// post-processed before they are stored, so cached blobs are final.
type CachedImage struct {
	Cache     *internal.AssetCache
	Generator ImageGenerator
	Options   imaging.Options
	// Force skips the lookup and regenerates, overwriting the cached blob.
	Force   bool
	Metrics *metrics.Recorder
}

// Get returns the cached image path for req, generating it on a miss.
func (c *CachedImage) Get(ctx context.Context, req ImageRequest) (string, error) {
	return c.GetPayload(ctx, imagePayload(req), req)
}

// GetPayload is Get with an explicit cache key.
func (c *CachedImage) GetPayload(ctx context.Context, payload internal.Payload, req ImageRequest) (string, error) {
	if !c.Force {
		path, ok, err := c.Cache.GetImagePath(payload)
		if err != nil {
			return "", err
		}
		if ok {
			c.Metrics.CacheHit("images")
			internal.LogDebug("cache hit for %s: %s", req.Task, path)
			return path, nil
		}
	}
	c.Metrics.CacheMiss("images")

	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Metrics.Generation(req.Task)
	data, err := c.Generator.GenerateImage(ctx, req)
	if err != nil {
		c.Metrics.GenerationFailed(req.Task)
		return "", generationError(req.Task, payload, err)
	}

	opts := c.Options
	opts.TargetAspect = req.Aspect
	processed, err := imaging.Postprocess(data, opts)
	if err != nil {
		return "", err
	}
	return c.Cache.SetImage(payload, processed)
}

// CachedText is cache-or-generate for text.
type CachedText struct {
	Cache     *internal.AssetCache
	Generator TextGenerator
	Force     bool
	Metrics   *metrics.Recorder
}

// Get returns the cached text for req, generating it on a miss.
func (c *CachedText) Get(ctx context.Context, req TextRequest) (string, error) {
	return c.GetPayload(ctx, textPayload(req), req)
}

// GetPayload is Get with an explicit cache key.
func (c *CachedText) GetPayload(ctx context.Context, payload internal.Payload, req TextRequest) (string, error) {
	if !c.Force {
		text, ok, err := c.Cache.GetText(payload)
		if err != nil {
			return "", err
		}
		if ok {
			c.Metrics.CacheHit("text")
			return text, nil
		}
	}
	c.Metrics.CacheMiss("text")

	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Metrics.Generation(req.Task)
	text, err := c.Generator.GenerateText(ctx, req)
	if err != nil {
		c.Metrics.GenerationFailed(req.Task)
		return "", generationError(req.Task, payload, err)
	}
	text = strings.Trim(strings.TrimSpace(text), `"'`)
	if err := c.Cache.SetText(payload, text); err != nil {
		return "", err
	}
	return text, nil
}

func generationError(task string, payload internal.Payload, err error) error {
	fp, fpErr := internal.Fingerprint(payload)
	if fpErr != nil {
		fp = "?"
	}
	return &internal.GenerationError{Task: task, Fingerprint: fp, Err: err}
}
