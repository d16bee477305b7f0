package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment key. Nested keys use a double
// underscore: ITINGEN_GENERATE__FORCE=true sets generate.force.
const EnvPrefix = "ITINGEN_"

// Sources lists what Load layers over the defaults.
type Sources struct {
	// Files are read in order. Missing optional files are skipped.
	Files []string
	// Required is a file that must exist, such as --config.
	Required string
	// Overrides are dotted keys set last, typically from changed flags.
	Overrides map[string]any
}

// Load builds a Config from defaults, files, environment and overrides.
func Load(src Sources) (*Config, error) {
	k := koanf.New(".")

	for _, path := range src.Files {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}
	if src.Required != "" {
		if err := k.Load(file.Provider(src.Required), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, src.Required, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	for key, value := range src.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, key, err)
		}
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ITINGEN_GENERATE__FORCE to generate.force.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	}
	if c.Image.MaxTrimPercent < 0 || c.Image.MaxTrimPercent >= 0.5 {
		return fmt.Errorf("%w: image.max_trim_percent must be in [0, 0.5)", ErrInvalidConfig)
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		return fmt.Errorf("%w: image.jpeg_quality must be in [1, 100]", ErrInvalidConfig)
	}
	if c.Image.MaxWidth < 0 {
		return fmt.Errorf("%w: image.max_width must not be negative", ErrInvalidConfig)
	}
	for name := range c.Theme {
		switch name {
		case "ink", "muted", "line", "accent", "warn", "surface":
		default:
			return fmt.Errorf("%w: unknown theme color %q", ErrInvalidConfig, name)
		}
	}
	return nil
}
