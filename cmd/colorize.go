package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/chart"
	"github.com/KaramelBytes/plyview/internal/colorize"
	"github.com/KaramelBytes/plyview/internal/export"
	"github.com/KaramelBytes/plyview/internal/utils"
	"github.com/KaramelBytes/plyview/internal/viewer"
)

var (
	colPreset    string
	colAttribute string
	colMode      string
	colColormap  string
	colPalette   string
	colAbsolute  bool
	colMidpoint  float64
	colOutPath   string
	colLegend    string
	colNoLegend  bool
)

var colorizeCmd = &cobra.Command{
	Use:   "colorize <file.ply>",
	Short: "Color a point cloud by a preset or an attribute",
	Long: `Color a point cloud with one of the presets (` + presetList() + `)
or by any attribute with --attribute. Prints the legend, and optionally writes
a colored PLY (--out) and the legend as YAML or JSON (--legend).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		settings := c.Settings()
		if cmd.Flags().Changed("midpoint") {
			settings.Midpoint = colMidpoint
		}

		sess, err := openSession(args[0], settings)
		if err != nil {
			return err
		}

		start := time.Now()
		var warnings []string
		if colAttribute != "" {
			ccfg, err := attributeConfig(settings)
			if err != nil {
				return err
			}
			warnings, err = sess.ColorBy(colAttribute, ccfg)
			if err != nil {
				return err
			}
		} else {
			preset := colorize.PresetRGB
			if colPreset != "" {
				if preset, err = colorize.ParsePreset(colPreset); err != nil {
					return err
				}
			}
			warnings, err = sess.SetPreset(preset)
			if err != nil {
				return err
			}
		}
		warnAll(warnings)
		res := sess.Colors()
		debugf("colored %d points as %s in %s", len(res.Colors), sess.Mode(), time.Since(start))

		w := cmd.OutOrStdout()
		if !colNoLegend {
			fmt.Fprintln(w, chart.Legend(sess.Mode(), res))
		}
		if colOutPath != "" {
			var buf bytes.Buffer
			if err := export.WritePLY(&buf, sess.Cloud(), res.Colors); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(colOutPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write colored ply: %w", err)
			}
			successf(w, "Wrote colored point cloud to %s", colOutPath)
		}
		if colLegend != "" {
			b, err := utils.Marshal(colLegend, newLegendFile(sess.Name(), sess.Mode(), res))
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(colLegend, b); err != nil {
				return fmt.Errorf("write legend: %w", err)
			}
			successf(w, "Wrote legend to %s", colLegend)
		}
		return nil
	},
}

// openSession loads path into a fresh viewer session and surfaces parse
// warnings.
func openSession(path string, settings colorize.Settings) (*viewer.Session, error) {
	start := time.Now()
	sess := viewer.New(settings)
	warnings, err := sess.LoadFile(path)
	if err != nil {
		return nil, err
	}
	warnAll(warnings)
	debugf("loaded %s: %d points in %s", path, sess.Cloud().Len(), time.Since(start))
	return sess, nil
}

// attributeConfig builds the colorization config for --attribute from flags.
func attributeConfig(s colorize.Settings) (colorize.Config, error) {
	mode := colorize.Sequential
	if colMode != "" {
		m, err := colorize.ParseMode(colMode)
		if err != nil {
			return colorize.Config{}, err
		}
		mode = m
	}
	ccfg := colorize.Config{
		Mode:           mode,
		PercentileLow:  s.PercentileLow,
		PercentileHigh: s.PercentileHigh,
		Midpoint:       s.Midpoint,
		Absolute:       colAbsolute,
		ChunkSize:      s.ChunkSize,
	}
	if mode == colorize.Qualitative {
		name := s.Palette
		if colPalette != "" {
			name = colPalette
		}
		pal, ok := colorize.Palette(name)
		if !ok {
			return colorize.Config{}, fmt.Errorf("unknown palette %q (use %s)", name, strings.Join(colorize.PaletteNames(), "|"))
		}
		ccfg.Source = pal
		return ccfg, nil
	}
	name := colColormap
	if name == "" {
		name = s.CurvatureColormap
		if mode == colorize.Diverging {
			name = "rdbu"
		}
	}
	cm, ok := colorize.Colormap(name)
	if !ok {
		return colorize.Config{}, fmt.Errorf("unknown colormap %q (use %s)", name, strings.Join(colorize.ColormapNames(), "|"))
	}
	ccfg.Source = cm
	return ccfg, nil
}

type legendClass struct {
	ID    float32 `json:"id" yaml:"id"`
	Label string  `json:"label" yaml:"label"`
	Color string  `json:"color" yaml:"color"`
}

type legendFile struct {
	File     string          `json:"file" yaml:"file"`
	Color    string          `json:"color_mode" yaml:"color_mode"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty"`
	Legend   colorize.Legend `json:"legend" yaml:"legend"`
	Gradient []string        `json:"gradient,omitempty" yaml:"gradient,omitempty"`
	Classes  []legendClass   `json:"classes,omitempty" yaml:"classes,omitempty"`
	Unmapped []float32       `json:"unmapped,omitempty" yaml:"unmapped,omitempty"`
}

func newLegendFile(file, mode string, res *colorize.Result) legendFile {
	lf := legendFile{File: file, Color: mode, Legend: res.Legend, Unmapped: res.Unmapped}
	switch src := res.Source.(type) {
	case colorize.Continuous:
		lf.Source = src.Name
		for _, c := range colorize.Gradient(src, chart.ColorBarSteps) {
			lf.Gradient = append(lf.Gradient, c.Hex())
		}
	case colorize.Categorical:
		lf.Source = src.Name
	}
	for _, cc := range res.Classes {
		lf.Classes = append(lf.Classes, legendClass{ID: cc.ID, Label: colorize.ClassLabel(cc.ID), Color: cc.Color.Hex()})
	}
	return lf
}

func presetList() string {
	names := make([]string, 0, len(colorize.Presets()))
	for _, p := range colorize.Presets() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(colorizeCmd)
	colorizeCmd.Flags().StringVar(&colPreset, "preset", "", "color preset: "+presetList()+" (default rgb)")
	colorizeCmd.Flags().StringVarP(&colAttribute, "attribute", "a", "", "color by this attribute instead of a preset")
	colorizeCmd.Flags().StringVar(&colMode, "mode", "", "with --attribute: sequential|diverging|qualitative (default sequential)")
	colorizeCmd.Flags().StringVar(&colColormap, "colormap", "", "with --attribute: continuous colormap (viridis, inferno, rdbu)")
	colorizeCmd.Flags().StringVar(&colPalette, "palette", "", "with --attribute --mode qualitative: palette (observable10, category10)")
	colorizeCmd.Flags().BoolVar(&colAbsolute, "abs", false, "with --attribute: color by absolute value")
	colorizeCmd.Flags().Float64Var(&colMidpoint, "midpoint", 0, "diverging midpoint (overrides config)")
	colorizeCmd.Flags().StringVarP(&colOutPath, "out", "o", "", "write an ASCII PLY with red/green/blue set to the computed colors")
	colorizeCmd.Flags().StringVar(&colLegend, "legend", "", "write the legend to this file (.json for JSON, YAML otherwise)")
	colorizeCmd.Flags().BoolVar(&colNoLegend, "no-legend", false, "do not print the legend")
}
