package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iksnae/itingen/internal"
	"github.com/iksnae/itingen/internal/config"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "itingen",
	Short: "Turn trip events into a printable itinerary",
	Long: `Build a styled, paginated itinerary from a trip directory.

A trip directory holds a config.yaml and an events/ folder of markdown day
files or YAML event lists. Events are grouped into days, optionally enriched
with generated banners, thumbnails, narratives and typical weather, and
written as PDF, Markdown, YAML or JSON. Generated assets are cached by
content, so unchanged inputs are never generated twice.

Quick Start:
  itingen timeline ./trips/nz            # Day-by-day overview
  itingen generate ./trips/nz            # Write itinerary.pdf
  itingen generate ./trips/nz -f md      # Markdown instead
  itingen cache stats                    # What the asset cache holds`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file layered over the trip's config.yaml")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig layers the trip's config.yaml, --config, ITINGEN_* variables
// and the flags the user actually set, in that order.
func loadConfig(cmd *cobra.Command, tripConfig string, flagKeys map[string]string) (*config.Config, error) {
	overrides := map[string]any{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		overrides[key] = flagValue(f)
	})

	src := config.Sources{Required: configPath, Overrides: overrides}
	if tripConfig != "" {
		src.Files = []string{tripConfig}
	}
	cfg, err := config.Load(src)
	if err != nil {
		return nil, err
	}
	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.LogLevel))
	}
	return cfg, nil
}

// flagValue returns the typed value of a flag. Negated flags ("no-*") are
// stored inverted under their positive config key.
func flagValue(f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		v := f.Value.String() == "true"
		if strings.HasPrefix(f.Name, "no-") {
			return !v
		}
		return v
	default:
		return f.Value.String()
	}
}
