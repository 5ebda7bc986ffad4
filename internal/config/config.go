package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/plyview/internal/colorize"
)

// Global configuration structure.
type Global struct {
	// Percentile clipping and diverging midpoint
	PercentileLow  float64 `mapstructure:"percentile_low" yaml:"percentile_low"`
	PercentileHigh float64 `mapstructure:"percentile_high" yaml:"percentile_high"`
	Midpoint       float64 `mapstructure:"midpoint" yaml:"midpoint"`

	// Colormaps per preset
	SaliencyColormap  string `mapstructure:"saliency_colormap" yaml:"saliency_colormap"`
	CurvatureColormap string `mapstructure:"curvature_colormap" yaml:"curvature_colormap"`
	Palette           string `mapstructure:"palette" yaml:"palette"`

	// Histogram bins for plot requests
	Bins int `mapstructure:"bins" yaml:"bins"`

	// ChunkSize is the column length above which colorization runs in parallel.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
	// Workers bounds concurrent files in batch commands.
	Workers int `mapstructure:"workers" yaml:"workers"`

	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Settings converts the global config into colorization settings.
func (g *Global) Settings() colorize.Settings {
	return colorize.Settings{
		PercentileLow:     g.PercentileLow,
		PercentileHigh:    g.PercentileHigh,
		Midpoint:          g.Midpoint,
		SaliencyColormap:  g.SaliencyColormap,
		CurvatureColormap: g.CurvatureColormap,
		Palette:           g.Palette,
		ChunkSize:         g.ChunkSize,
	}
}

// Validate rejects settings that would fail every colorization.
func (g *Global) Validate() error {
	if !(g.PercentileLow >= 0 && g.PercentileLow < g.PercentileHigh && g.PercentileHigh <= 100) {
		return fmt.Errorf("percentile_low/percentile_high must satisfy 0 <= low < high <= 100, got %g/%g", g.PercentileLow, g.PercentileHigh)
	}
	if _, ok := colorize.Colormap(g.SaliencyColormap); !ok {
		return fmt.Errorf("unknown saliency_colormap: %s", g.SaliencyColormap)
	}
	if _, ok := colorize.Colormap(g.CurvatureColormap); !ok {
		return fmt.Errorf("unknown curvature_colormap: %s", g.CurvatureColormap)
	}
	if _, ok := colorize.Palette(g.Palette); !ok {
		return fmt.Errorf("unknown palette: %s", g.Palette)
	}
	return nil
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".plyview", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.plyview/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PLYVIEW")
	v.AutomaticEnv()

	d := colorize.DefaultSettings()
	v.SetDefault("percentile_low", d.PercentileLow)
	v.SetDefault("percentile_high", d.PercentileHigh)
	v.SetDefault("midpoint", d.Midpoint)
	v.SetDefault("saliency_colormap", d.SaliencyColormap)
	v.SetDefault("curvature_colormap", d.CurvatureColormap)
	v.SetDefault("palette", d.Palette)
	v.SetDefault("bins", 30)
	v.SetDefault("chunk_size", colorize.DefaultChunkSize)
	v.SetDefault("workers", 4)
	v.SetDefault("output_dir", ".")
	return v
}

// Defaults returns the built-in configuration with environment overrides
// applied, ignoring any config file.
func Defaults() (*Global, error) {
	var c Global
	if err := newViper().Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
