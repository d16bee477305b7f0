package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/source"
	"github.com/iksnae/itingen/internal/theme"
)

var (
	healthcheckVerbose bool
	healthcheckDB      string
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck [trip-dir]",
	Short: "Check that itingen can read its inputs and write its cache",
	Long: `Check the health of itingen by verifying:
  • Configuration loading (including the trip's config.yaml when given)
  • Asset cache directory access
  • Font availability without network access
  • Trip directory readability (when given)
  • Event database access (with --db)

This command is useful for debugging setups, especially in CI/CD environments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 itingen Health Check"))
		fmt.Fprintln(out)

		var failures int
		fail := func(msg string, err error) {
			failures++
			fmt.Fprintln(out, errorStyle.Render("❌ "+msg), err)
		}

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		var trip *source.TripDir
		if len(args) == 1 {
			var err error
			if trip, err = source.Open(args[0]); err != nil {
				fail("Trip directory not readable:", err)
			}
		}
		tripConfig := ""
		if trip != nil {
			tripConfig = trip.ConfigPath()
		}
		cfg, err := loadConfig(cmd, tripConfig, nil)
		if err != nil {
			fail("Configuration invalid:", err)
			fmt.Fprintln(out)
			return summarize(out, failures)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Format: %s\n", cfg.Format)
			fmt.Fprintf(out, "   Model: %s\n", cfg.Generate.Model)
		}
		fmt.Fprintln(out)

		// Step 2: Asset cache
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking asset cache..."))
		cache := internal.NewAssetCache(cfg.CacheDir)
		if err := cache.EnsureDirs(); err != nil {
			fail("Asset cache not writable:", err)
		} else if stats, err := cache.Stats(); err != nil {
			fail("Asset cache not readable:", err)
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Asset cache ready (%d texts, %d images)", stats.TextCount, stats.ImageCount)))
			if healthcheckVerbose {
				fmt.Fprintf(out, "   Directory: %s\n", stats.Root)
			}
		}
		fmt.Fprintln(out)

		// Step 3: Fonts
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking fonts..."))
		checkFonts(cmd.Context(), out, cfg.FontDir, cfg.FontCacheDir())
		fmt.Fprintln(out)

		// Step 4: Trip
		if trip != nil {
			fmt.Fprintln(out, infoStyle.Render("Step 4: Reading trip..."))
			events, err := readTripEvents(trip)
			switch {
			case err != nil:
				fail("Failed to read trip:", err)
			case len(events) == 0:
				fmt.Fprintln(out, warningStyle.Render("⚠️  No events found in "+trip.Dir()))
			default:
				days := internal.Aggregate(internal.SortChronologically(events))
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d event(s) over %d day(s)", len(events), len(days))))
			}
			fmt.Fprintln(out)
		}

		// Step 5: Event database
		if healthcheckDB != "" {
			fmt.Fprintln(out, infoStyle.Render("Step 5: Opening event database..."))
			if trips, err := storedTrips(healthcheckDB); err != nil {
				fail("Event database not readable:", err)
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d stored trip(s)", len(trips))))
				if healthcheckVerbose {
					for _, t := range trips {
						fmt.Fprintf(out, "   %s (%d events)\n", t.ID, t.EventCount)
					}
				}
			}
			fmt.Fprintln(out)
		}

		return summarize(out, failures)
	},
}

// checkFonts reports which families are available without downloading.
func checkFonts(ctx context.Context, out io.Writer, fontDir, cacheDir string) {
	if ctx == nil {
		ctx = context.Background()
	}
	var dirs []string
	if fontDir != "" {
		dirs = append(dirs, fontDir)
	}
	provider := theme.ChainProvider{
		theme.DirProvider{Dirs: dirs},
		theme.NewHTTPProvider(cacheDir, true),
	}

	specs := []theme.FontSpec{theme.CormorantGaramond, theme.SourceSerif4, theme.SourceSans3, theme.NotoSans, theme.DejaVuSans}
	found := 0
	for _, spec := range specs {
		if _, err := provider.Load(ctx, spec); err == nil {
			found++
			if healthcheckVerbose {
				fmt.Fprintf(out, "   %s: available\n", spec.Name)
			}
		} else if healthcheckVerbose {
			fmt.Fprintf(out, "   %s: missing\n", spec.Name)
		}
	}
	if found == 0 {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No preferred fonts cached; PDFs use the built-in Go fonts until they are downloaded"))
		return
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %d of %d preferred font families available", found, len(specs))))
}

func storedTrips(path string) ([]internal.TripSummary, error) {
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return internal.NewEventStore(db).Trips()
}

func summarize(out io.Writer, failures int) error {
	fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
	fmt.Fprintln(out)
	if failures == 0 {
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	}
	fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failures)))
	return fmt.Errorf("health check failed: %d problem(s)", failures)
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "details", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().StringVar(&healthcheckDB, "db", "", "Event database to check")
}
