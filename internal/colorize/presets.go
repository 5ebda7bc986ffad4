package colorize

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// Preset is a named color mode of the viewer.
type Preset string

const (
	PresetRGB          Preset = "rgb"
	PresetAttributions Preset = "attributions"
	PresetClass        Preset = "class"
	PresetGroundTruth  Preset = "ground_truth"
	PresetCurvature    Preset = "curvature"
)

// Presets lists the built-in presets in menu order.
func Presets() []Preset {
	return []Preset{PresetRGB, PresetAttributions, PresetClass, PresetGroundTruth, PresetCurvature}
}

// ParsePreset accepts a preset name; "saliency" is an alias of attributions.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case PresetRGB, PresetAttributions, PresetClass, PresetGroundTruth, PresetCurvature:
		return p, nil
	case "saliency":
		return PresetAttributions, nil
	}
	return "", fmt.Errorf("unknown color preset %q: %w", s, ErrInvalidConfig)
}

// Settings carries the user-tunable knobs shared by the presets.
type Settings struct {
	PercentileLow  float64
	PercentileHigh float64
	Midpoint       float64
	// SaliencyColormap is "rdbu" (diverging) or "inferno" (sequential on |v|).
	SaliencyColormap  string
	CurvatureColormap string
	Palette           string
	ChunkSize         int
}

// DefaultSettings mirrors the viewer's defaults.
func DefaultSettings() Settings {
	return Settings{
		PercentileLow:     1,
		PercentileHigh:    99,
		SaliencyColormap:  "rdbu",
		CurvatureColormap: "viridis",
		Palette:           "observable10",
	}
}

// Validate checks the percentile bounds and that every named colormap and
// the palette exist.
func (s Settings) Validate() error {
	if !(s.PercentileLow >= 0 && s.PercentileLow < s.PercentileHigh && s.PercentileHigh <= 100) {
		return fmt.Errorf("percentiles [%g, %g]: %w", s.PercentileLow, s.PercentileHigh, ErrInvalidConfig)
	}
	if math.IsNaN(s.Midpoint) || math.IsInf(s.Midpoint, 0) {
		return fmt.Errorf("midpoint %g: %w", s.Midpoint, ErrInvalidConfig)
	}
	for _, name := range []string{s.SaliencyColormap, s.CurvatureColormap} {
		if _, ok := Colormap(name); !ok {
			return fmt.Errorf("unknown colormap %q (have %s): %w", name, strings.Join(ColormapNames(), ", "), ErrInvalidConfig)
		}
	}
	if _, ok := Palette(s.Palette); !ok {
		return fmt.Errorf("unknown palette %q (have %s): %w", s.Palette, strings.Join(PaletteNames(), ", "), ErrInvalidConfig)
	}
	return nil
}

// Config resolves the colorization config of a continuous preset. Class
// presets need the cloud to build their map; use Apply for those.
func (s Settings) Config(p Preset) (Config, error) {
	cfg := Config{
		PercentileLow:  s.PercentileLow,
		PercentileHigh: s.PercentileHigh,
		Midpoint:       s.Midpoint,
		ChunkSize:      s.ChunkSize,
	}
	var name string
	switch p {
	case PresetAttributions:
		name = s.SaliencyColormap
		cfg.Mode = Diverging
		if strings.EqualFold(name, "inferno") {
			cfg.Mode = Sequential
			cfg.Absolute = true
		}
	case PresetCurvature:
		name = s.CurvatureColormap
		cfg.Mode = Sequential
	default:
		return Config{}, fmt.Errorf("preset %s has no continuous config: %w", p, ErrInvalidConfig)
	}
	cm, ok := Colormap(name)
	if !ok {
		return Config{}, fmt.Errorf("unknown colormap %q (have %s): %w", name, strings.Join(ColormapNames(), ", "), ErrInvalidConfig)
	}
	cfg.Source = cm
	return cfg, nil
}

// Apply colors pc with a preset. A *pointcloud.MissingAttributeError is
// returned when the preset's column is absent.
func Apply(pc *pointcloud.PointCloud, p Preset, s Settings) (*Result, error) {
	switch p {
	case PresetRGB:
		buf, ok := pc.BaseColor()
		if !ok {
			return nil, &pointcloud.MissingAttributeError{Name: "red/green/blue"}
		}
		res := &Result{Colors: make([]RGB, pc.Len())}
		for i := range res.Colors {
			res.Colors[i] = RGB{R: buf[i*3], G: buf[i*3+1], B: buf[i*3+2]}
		}
		return res, nil
	case PresetClass, PresetGroundTruth:
		labels, err := pc.Require(string(p))
		if err != nil {
			return nil, err
		}
		pal, ok := Palette(s.Palette)
		if !ok {
			return nil, fmt.Errorf("unknown palette %q (have %s): %w", s.Palette, strings.Join(PaletteNames(), ", "), ErrInvalidConfig)
		}
		cls, _ := pc.Scalar(string(PresetClass))
		gt, _ := pc.Scalar(string(PresetGroundTruth))
		m, _ := ClassColorMap(pal, cls, gt)
		return Colorize(labels, Config{Mode: Qualitative, Source: m})
	default:
		cfg, err := s.Config(p)
		if err != nil {
			return nil, err
		}
		values, err := pc.Require(string(p))
		if err != nil {
			return nil, err
		}
		return Colorize(values, cfg)
	}
}

// ByAttribute colors an arbitrary column.
func ByAttribute(pc *pointcloud.PointCloud, name string, cfg Config) (*Result, error) {
	values, err := pc.Require(name)
	if err != nil {
		return nil, err
	}
	return Colorize(values, cfg)
}
