// Package config holds the settings of a generation run. Values layer in
// this order, later winning: defaults, YAML files, ITINGEN_* environment
// variables, then command-line overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/iksnae/itingen/internal/imaging"
)

// Config contains the settings of one run.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Title heads the document. Empty means "Trip Itinerary".
	Title string `koanf:"title"`

	// Timezone names the trip's home zone, shown after event times.
	Timezone string `koanf:"timezone"`

	// SuppressTimezone drops the zone suffix from event times.
	SuppressTimezone bool `koanf:"suppress_timezone"`

	CacheDir string `koanf:"cache_dir"`
	FontDir  string `koanf:"font_dir"`

	// Offline disables every network access: font downloads and remote
	// generators.
	Offline bool `koanf:"offline"`

	Format      string `koanf:"format"`
	Output      string `koanf:"output"`
	Person      string `koanf:"person"`
	MetricsFile string `koanf:"metrics_file"`

	// Climate points at a climate table used for weather enrichment.
	Climate string `koanf:"climate"`

	Generate Generate `koanf:"generate"`
	Image    Image    `koanf:"image"`

	// Theme overrides palette entries by name, e.g. accent: "#0F766E".
	Theme map[string]string `koanf:"theme"`
}

// Generate selects the asset-generation steps.
type Generate struct {
	Banners    bool   `koanf:"banners"`
	Thumbnails bool   `koanf:"thumbnails"`
	Narratives bool   `koanf:"narratives"`
	Weather    bool   `koanf:"weather"`
	Model      string `koanf:"model"`
	Force      bool   `koanf:"force"`
	BestEffort bool   `koanf:"best_effort"`
}

// Image controls post-processing of generated artwork.
type Image struct {
	MaxTrimPercent float64 `koanf:"max_trim_percent"`
	PreferPNG      bool    `koanf:"prefer_png"`
	JPEGQuality    int     `koanf:"jpeg_quality"`
	MaxWidth       int     `koanf:"max_width"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		CacheDir: DefaultCacheDir(),
		Format:   "pdf",
		Output:   "itinerary",
		Generate: Generate{
			Banners:    true,
			Thumbnails: true,
			Narratives: false,
			Weather:    true,
			Model:      "offline",
			BestEffort: true,
		},
		Image: Image{
			MaxTrimPercent: imaging.DefaultMaxTrimPercent,
			PreferPNG:      true,
			JPEGQuality:    imaging.DefaultJPEGQuality,
		},
	}
}

// ImageOptions converts the image settings for the post-processor.
func (c *Config) ImageOptions() imaging.Options {
	opts := imaging.DefaultOptions()
	opts.MaxTrimPercent = c.Image.MaxTrimPercent
	opts.PreferPNG = c.Image.PreferPNG
	opts.JPEGQuality = c.Image.JPEGQuality
	opts.MaxWidth = c.Image.MaxWidth
	return opts
}

// FontCacheDir is where downloaded fonts are kept.
func (c *Config) FontCacheDir() string {
	return filepath.Join(c.CacheDir, "fonts")
}

// DefaultCacheDir returns itingen under the user cache directory, or a
// relative .itingen-cache when no home directory is known.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "itingen")
	}
	return ".itingen-cache"
}
