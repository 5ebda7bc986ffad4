package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/colorize"
	cfgpkg "github.com/KaramelBytes/plyview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set plyview configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "percentile_low: %g\n", c.PercentileLow)
		fmt.Fprintf(w, "percentile_high: %g\n", c.PercentileHigh)
		fmt.Fprintf(w, "midpoint: %g\n", c.Midpoint)
		fmt.Fprintf(w, "saliency_colormap: %s\n", c.SaliencyColormap)
		fmt.Fprintf(w, "curvature_colormap: %s\n", c.CurvatureColormap)
		fmt.Fprintf(w, "palette: %s\n", c.Palette)
		fmt.Fprintf(w, "bins: %d\n", c.Bins)
		fmt.Fprintf(w, "chunk_size: %d\n", c.ChunkSize)
		fmt.Fprintf(w, "workers: %d\n", c.Workers)
		fmt.Fprintf(w, "output_dir: %s\n", c.OutputDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "percentile_low", "percentile_high", "midpoint":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			switch key {
			case "percentile_low":
				cfg.PercentileLow = f
			case "percentile_high":
				cfg.PercentileHigh = f
			default:
				cfg.Midpoint = f
			}
		case "saliency_colormap":
			if _, ok := colorize.Colormap(val); !ok {
				return fmt.Errorf("invalid saliency_colormap: %s (use %s)", val, strings.Join(colorize.ColormapNames(), "|"))
			}
			cfg.SaliencyColormap = strings.ToLower(val)
		case "curvature_colormap":
			if _, ok := colorize.Colormap(val); !ok {
				return fmt.Errorf("invalid curvature_colormap: %s (use %s)", val, strings.Join(colorize.ColormapNames(), "|"))
			}
			cfg.CurvatureColormap = strings.ToLower(val)
		case "palette":
			if _, ok := colorize.Palette(val); !ok {
				return fmt.Errorf("invalid palette: %s (use %s)", val, strings.Join(colorize.PaletteNames(), "|"))
			}
			cfg.Palette = strings.ToLower(val)
		case "bins", "chunk_size", "workers":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			switch key {
			case "bins":
				if i < 1 {
					return fmt.Errorf("bins must be >= 1")
				}
				cfg.Bins = i
			case "chunk_size":
				cfg.ChunkSize = i
			default:
				if i < 1 {
					return fmt.Errorf("workers must be >= 1")
				}
				cfg.Workers = i
			}
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
