package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/itingen/internal"
)

var (
	cacheDir    string
	cacheFormat string
)

var cacheFlagKeys = map[string]string{
	"cache-dir": "cache_dir",
}

// cacheCmd groups the asset cache subcommands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the generated-asset cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the asset cache holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openAssetCache(cmd)
		if err != nil {
			return err
		}
		stats, err := cache.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch cacheFormat {
		case "json":
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(stats); err != nil {
				return err
			}
			return enc.Close()
		case "table", "":
			table := newTextTable(out, "Root", "Texts", "Images", "Size")
			table.AddRow(stats.Root, strconv.Itoa(stats.TextCount), strconv.Itoa(stats.ImageCount), formatBytes(stats.TotalBytes))
			table.Render()
		default:
			return fmt.Errorf("unsupported format %q (use table, json or yaml)", cacheFormat)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached asset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openAssetCache(cmd)
		if err != nil {
			return err
		}
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cache.Root())
		return nil
	},
}

func openAssetCache(cmd *cobra.Command) (*internal.AssetCache, error) {
	cfg, err := loadConfig(cmd, "", cacheFlagKeys)
	if err != nil {
		return nil, err
	}
	return internal.NewAssetCache(cfg.CacheDir), nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	cacheCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Asset cache directory (defaults to the configured cache_dir)")
	cacheStatsCmd.Flags().StringVarP(&cacheFormat, "format", "f", "table", "Output format: table, json, yaml")
}
