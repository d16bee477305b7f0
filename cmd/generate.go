package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/config"
	"github.com/iksnae/itingen/internal/export"
	"github.com/iksnae/itingen/internal/hydrate"
	"github.com/iksnae/itingen/internal/metrics"
	"github.com/iksnae/itingen/internal/source"
	"github.com/iksnae/itingen/internal/theme"
)

// offlineModel names the built-in placeholder generator.
const offlineModel = "offline"

var (
	format       string
	outputPath   string
	person       string
	title        string
	dbPath       string
	metricsFile  string
	offline      bool
	force        bool
	noBanners    bool
	noThumbnails bool
	narratives   bool
	noWeather    bool
	noAssets     bool
)

// generateFlagKeys maps generate's flags to config keys.
var generateFlagKeys = map[string]string{
	"format":        "format",
	"output":        "output",
	"person":        "person",
	"title":         "title",
	"metrics-file":  "metrics_file",
	"offline":       "offline",
	"force":         "generate.force",
	"no-banners":    "generate.banners",
	"no-thumbnails": "generate.thumbnails",
	"narratives":    "generate.narratives",
	"no-weather":    "generate.weather",
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <trip-dir | trip-id>",
	Short: "Write the itinerary document for a trip",
	Long: `Generate the itinerary for a trip directory (or, with --db, a trip stored by
'itingen import').

Events are sorted chronologically, optionally filtered to one person,
grouped into days and enriched with generated assets before the document is
written. Assets come from the asset cache when the same input was generated
before.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		trip, err := loadTrip(args[0], dbPath)
		if err != nil {
			return err
		}
		events := trip.events
		climate := trip.climate

		cfg, err := loadConfig(cmd, trip.config, generateFlagKeys)
		if err != nil {
			return err
		}
		if cfg.Climate != "" {
			climate = cfg.Climate
		}

		events = internal.SortChronologically(events)
		events = internal.FilterByPerson(events, cfg.Person)
		events = internal.DefaultTimezone(events, cfg.Timezone)
		events = internal.DescribeTransitions(events)
		if len(events) == 0 {
			internal.LogWarn("No events to render")
		}

		rec := metrics.New()
		exporter, err := newExporter(cfg, rec)
		if err != nil {
			return err
		}

		opts := []export.EmitterOption{export.WithMetrics(rec)}
		if !noAssets {
			h, err := newHydrator(cfg, climate, rec)
			if err != nil {
				return err
			}
			if h != nil {
				opts = append(opts, export.WithHydrator(h))
			}
		}
		emitter := export.NewEmitter(exporter, opts...)

		var written string
		steps := []internal.ProgressStep{
			{
				Message: fmt.Sprintf("Rendering %d events as %s", len(events), exporter.Extension()),
				Fn: func() error {
					var emitErr error
					written, emitErr = emitter.Emit(ctx, events, cfg.Output)
					return emitErr
				},
			},
		}
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		if cfg.MetricsFile != "" {
			if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
				internal.LogWarn("Failed to write metrics: %v", err)
			}
		}

		internal.PrintSuccess(fmt.Sprintf("Wrote %s", written))
		return nil
	},
}

// newExporter builds the exporter for cfg.Format with the themed fonts.
func newExporter(cfg *config.Config, rec *metrics.Recorder) (export.Exporter, error) {
	th, err := theme.Default().WithTitle(cfg.Title).WithPalette(cfg.Theme)
	if err != nil {
		return nil, err
	}

	var dirs []string
	if cfg.FontDir != "" {
		dirs = append(dirs, cfg.FontDir)
	}
	providers := theme.ChainProvider{
		theme.DirProvider{Dirs: dirs},
		theme.NewHTTPProvider(cfg.FontCacheDir(), cfg.Offline || theme.OfflineFromEnv()),
	}
	fonts := theme.NewResolver(providers, theme.NewFontCache())

	exporter, err := export.NewExporter(cfg.Format, th, fonts)
	if err != nil {
		return nil, err
	}
	switch e := exporter.(type) {
	case *export.PDFExporter:
		e.SuppressTimezone = cfg.SuppressTimezone
		e.Metrics = rec
	case *export.MarkdownExporter:
		e.SuppressTimezone = cfg.SuppressTimezone
	}
	return exporter, nil
}

// newHydrator wires the asset steps enabled in cfg. It returns nil when
// every step is off.
func newHydrator(cfg *config.Config, climatePath string, rec *metrics.Recorder) (*hydrate.Hydrator, error) {
	g := cfg.Generate
	var opts []hydrate.Option
	opts = append(opts, hydrate.WithMetrics(rec))

	if g.Weather && climatePath != "" {
		table, err := hydrate.LoadClimateTable(climatePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hydrate.WithWeather(table))
	}
	if !g.Banners && !g.Thumbnails && !g.Narratives && len(opts) == 1 {
		return nil, nil
	}

	if g.Model != offlineModel {
		return nil, fmt.Errorf("no generator for model %q (available: %s)", g.Model, offlineModel)
	}
	gen := hydrate.OfflineGenerator{}

	cache := internal.NewAssetCache(cfg.CacheDir)
	if err := cache.EnsureDirs(); err != nil {
		return nil, err
	}
	return hydrate.NewHydrator(cache, gen, gen, hydrate.Config{
		Model:      g.Model,
		Banners:    g.Banners,
		Thumbnails: g.Thumbnails,
		Narratives: g.Narratives,
		Force:      g.Force,
		BestEffort: g.BestEffort,
		Image:      cfg.ImageOptions(),
	}, opts...), nil
}

// tripInput is a trip's events plus the files found next to them.
type tripInput struct {
	events  []internal.Event
	config  string
	climate string
}

// loadTrip reads a trip directory, or a stored trip when db is set.
func loadTrip(arg, db string) (*tripInput, error) {
	if db != "" {
		events, err := loadStoredEvents(db, arg)
		if err != nil {
			return nil, err
		}
		return &tripInput{events: events}, nil
	}

	dir, err := source.Open(arg)
	if err != nil {
		return nil, err
	}
	events, err := readTripEvents(dir)
	if err != nil {
		return nil, err
	}
	return &tripInput{events: events, config: dir.ConfigPath(), climate: dir.ClimatePath()}, nil
}

// readTripEvents reads a trip directory's events with its venues applied.
func readTripEvents(dir *source.TripDir) ([]internal.Event, error) {
	events, err := dir.Events()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	venues, err := dir.Venues()
	if err != nil {
		return nil, fmt.Errorf("failed to read venues: %w", err)
	}
	return internal.ApplyVenues(events, venues), nil
}

// loadStoredEvents reads a trip saved by the import command.
func loadStoredEvents(path, tripID string) ([]internal.Event, error) {
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	events, err := internal.NewEventStore(db).LoadEvents(tripID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no stored events for trip %q in %s", tripID, path)
	}
	return events, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&format, "format", "f", "pdf", "Output format: "+strings.Join(export.Formats, ", "))
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "itinerary", "Output path; the format's extension is added when missing")
	generateCmd.Flags().StringVar(&person, "person", "", "Only include events for this person (plus shared events)")
	generateCmd.Flags().StringVar(&title, "title", "", "Document title")
	generateCmd.Flags().StringVar(&dbPath, "db", "", "Read the trip from this event database instead of a directory")
	generateCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run counters to this Prometheus textfile")
	generateCmd.Flags().BoolVar(&offline, "offline", false, "Never touch the network")
	generateCmd.Flags().BoolVar(&force, "force", false, "Regenerate assets even when cached")
	generateCmd.Flags().BoolVar(&noBanners, "no-banners", false, "Skip day banners")
	generateCmd.Flags().BoolVar(&noThumbnails, "no-thumbnails", false, "Skip event thumbnails")
	generateCmd.Flags().BoolVar(&narratives, "narratives", false, "Generate event narratives")
	generateCmd.Flags().BoolVar(&noWeather, "no-weather", false, "Skip weather enrichment")
	generateCmd.Flags().BoolVar(&noAssets, "no-assets", false, "Skip every generation step")
}
