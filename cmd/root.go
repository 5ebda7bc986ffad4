package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/plyview/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides for config values when set
	flagPercentileLow  float64
	flagPercentileHigh float64
	flagChunkSize      int
	flagWorkers        int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "plyview",
	Short: "plyview: inspect, colorize and plot ASCII PLY point clouds",
	Long: `plyview reads ASCII PLY point clouds with arbitrary per-point attributes
(model attributions, predicted and ground-truth classes, curvature, ...),
colors them by attribute, bins attributes into histograms and exports the
result as colored PLY or CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.plyview/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.Float64Var(&flagPercentileLow, "p-low", 0, "lower clipping percentile for continuous colors (overrides config)")
	pf.Float64Var(&flagPercentileHigh, "p-high", 0, "upper clipping percentile for continuous colors (overrides config)")
	pf.IntVar(&flagChunkSize, "chunk-size", 0, "points per parallel colorization chunk, negative for serial (overrides config)")
	pf.IntVar(&flagWorkers, "workers", 0, "files processed concurrently by batch commands (overrides config)")
}

func loadConfig() {
	cfg = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		warnf("failed to load config: %v", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("p-low") {
		cfg.PercentileLow = flagPercentileLow
	}
	if f.Changed("p-high") {
		cfg.PercentileHigh = flagPercentileHigh
	}
	if f.Changed("chunk-size") && flagChunkSize != 0 {
		cfg.ChunkSize = flagChunkSize
	}
	if f.Changed("workers") && flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	debugf("config: %+v", *cfg)
}

// activeConfig returns the loaded config, or validated defaults when loading
// failed.
func activeConfig() (*cfgpkg.Global, error) {
	c := cfg
	if c == nil {
		d, err := cfgpkg.Defaults()
		if err != nil {
			return nil, err
		}
		c = d
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
