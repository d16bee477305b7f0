// Package source reads a trip directory:
//
//	trip/
//	  config.yaml       run settings, layered by the config package
//	  climate.yaml      optional climate normals for weather enrichment
//	  events/*.md       day files with "### Event:" blocks
//	  events/*.yaml     lists of events
//	  venues/*.json     optional venues, one per file, keyed by venue_id
//
// Files are read in name order, markdown before YAML.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/itingen/internal"
)

const (
	eventHeaderPrefix = "### Event:"
	sectionPrefix     = "## "
	fieldPrefix       = "- "

	ConfigFile  = "config.yaml"
	ClimateFile = "climate.yaml"
	eventsDir   = "events"
	venuesDir   = "venues"
)

// TripDir is a trip on disk.
type TripDir struct {
	dir        string
	normalizer *internal.Normalizer
}

// Open checks that dir exists and is a directory.
func Open(dir string) (*TripDir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("trip directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &TripDir{dir: dir, normalizer: internal.NewNormalizer()}, nil
}

// Dir returns the trip directory.
func (t *TripDir) Dir() string {
	return t.dir
}

// Name is the trip id used when storing events: the directory base name.
func (t *TripDir) Name() string {
	abs, err := filepath.Abs(t.dir)
	if err != nil {
		return filepath.Base(t.dir)
	}
	return filepath.Base(abs)
}

// ConfigPath returns the path of the trip's config.yaml, which may not exist.
func (t *TripDir) ConfigPath() string {
	return filepath.Join(t.dir, ConfigFile)
}

// ClimatePath returns the trip's climate table, or "" when there is none.
func (t *TripDir) ClimatePath() string {
	path := filepath.Join(t.dir, ClimateFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Events reads every event file. Events repeated across files are dropped.
// A trip without an events directory has no events.
func (t *TripDir) Events() ([]internal.Event, error) {
	dir := filepath.Join(t.dir, eventsDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &internal.StorageError{Path: dir, Op: "read", Err: err}
	}

	var markdown, docs []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md":
			markdown = append(markdown, entry.Name())
		case ".yaml", ".yml":
			docs = append(docs, entry.Name())
		}
	}
	sort.Strings(markdown)
	sort.Strings(docs)

	var events []internal.Event
	for _, name := range markdown {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			return nil, &internal.StorageError{Path: path, Op: "open", Err: err}
		}
		parsed, err := t.ParseMarkdown(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		events = append(events, parsed...)
	}
	for _, name := range docs {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &internal.StorageError{Path: path, Op: "read", Err: err}
		}
		parsed, err := t.ParseYAML(data, path)
		if err != nil {
			return nil, err
		}
		events = append(events, parsed...)
	}

	internal.LogDebug("Loaded %d events from %d files in %s", len(events), len(markdown)+len(docs), dir)
	return internal.Deduplicate(events), nil
}

// Venues reads venues/*.json. A trip without a venues directory has none.
// Two files with the same venue_id are an error.
func (t *TripDir) Venues() (map[string]internal.Venue, error) {
	dir := filepath.Join(t.dir, venuesDir)
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	venues := make(map[string]internal.Venue, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &internal.StorageError{Path: path, Op: "read", Err: err}
		}
		var v internal.Venue
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, &internal.ParseError{Source: "venue", Key: path, Err: err}
		}
		if err := v.Validate(); err != nil {
			return nil, &internal.ParseError{Source: "venue", Key: path, Err: err}
		}
		if _, dup := venues[v.ID]; dup {
			return nil, &internal.ParseError{Source: "venue", Key: path, Err: fmt.Errorf("duplicate venue_id %s", v.ID)}
		}
		venues[v.ID] = v
	}
	if len(venues) > 0 {
		internal.LogDebug("Loaded %d venues from %s", len(venues), dir)
	}
	return venues, nil
}

// ParseMarkdown reads a day file. "- key: value" lines before the first
// event, or after a "## " section heading, are day metadata and apply to
// every later event in the file. Lines inside an event block set that
// event's fields.
func (t *TripDir) ParseMarkdown(r io.Reader, name string) ([]internal.Event, error) {
	var (
		events   []internal.Event
		day      = map[string]string{}
		fields   map[string]string
		heading  string
		inEvent  bool
		scanner  = bufio.NewScanner(r)
		lineNo   int
		startsAt int
	)

	flush := func() error {
		if !inEvent {
			return nil
		}
		merged := make(map[string]string, len(day)+len(fields)+1)
		for k, v := range day {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
		merged["event_heading"] = heading
		e, err := t.normalizer.NormalizeFields(merged)
		if err != nil {
			return &internal.ParseError{Source: "markdown", Key: fmt.Sprintf("%s:%d", name, startsAt), Err: err}
		}
		events = append(events, e)
		inEvent = false
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		switch {
		case strings.HasPrefix(line, eventHeaderPrefix):
			if err := flush(); err != nil {
				return nil, err
			}
			heading = strings.TrimSpace(strings.TrimPrefix(line, eventHeaderPrefix))
			fields = map[string]string{}
			inEvent = true
			startsAt = lineNo
		case strings.HasPrefix(line, sectionPrefix):
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(strings.TrimSpace(line), fieldPrefix):
			key, value, ok := strings.Cut(strings.TrimPrefix(strings.TrimSpace(line), fieldPrefix), ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			if inEvent {
				fields[key] = strings.TrimSpace(value)
			} else {
				day[key] = strings.TrimSpace(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &internal.StorageError{Path: name, Op: "read", Err: err}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return events, nil
}

// ParseYAML reads an events document: either a list of events or a mapping
// with an "events" list.
func (t *TripDir) ParseYAML(data []byte, name string) ([]internal.Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &internal.ParseError{Source: "yaml", Key: name, Err: err}
	}

	var docs []map[string]any
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		var wrapped struct {
			Events []map[string]any `yaml:"events"`
		}
		if err := root.Content[0].Decode(&wrapped); err != nil {
			return nil, &internal.ParseError{Source: "yaml", Key: name, Err: err}
		}
		docs = wrapped.Events
	} else if err := root.Decode(&docs); err != nil {
		return nil, &internal.ParseError{Source: "yaml", Key: name, Err: err}
	}

	events := make([]internal.Event, 0, len(docs))
	for i, doc := range docs {
		e, err := t.normalizer.NormalizeMap(doc)
		if err != nil {
			return nil, &internal.ParseError{Source: "yaml", Key: fmt.Sprintf("%s[%d]", name, i), Err: err}
		}
		events = append(events, e)
	}
	return events, nil
}
