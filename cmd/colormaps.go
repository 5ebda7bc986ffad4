package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/chart"
	"github.com/KaramelBytes/plyview/internal/colorize"
)

var cmapSteps int

var colormapsCmd = &cobra.Command{
	Use:   "colormaps",
	Short: "Inspect built-in colormaps, palettes and class labels",
	Example: `  plyview colormaps show
  plyview colormaps show --steps 5
  plyview colormaps classes`,
}

type colormapInfo struct {
	Kind  string   `json:"kind"`
	Stops []string `json:"stops"`
}

var colormapsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print colormaps and palettes as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := map[string]colormapInfo{}
		for _, name := range colorize.ColormapNames() {
			cm, _ := colorize.Colormap(name)
			info := colormapInfo{Kind: "continuous"}
			for _, c := range colorize.Gradient(cm, cmapSteps) {
				info.Stops = append(info.Stops, c.Hex())
			}
			m[name] = info
		}
		for _, name := range colorize.PaletteNames() {
			p, _ := colorize.Palette(name)
			info := colormapInfo{Kind: "categorical"}
			for _, c := range p.Palette {
				info.Stops = append(info.Stops, c.Hex())
			}
			m[name] = info
		}
		// encoding/json sorts map keys
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}

var colormapsClassesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the class labels used in class legends",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]float32, 0, len(colorize.ClassLabels))
		for id := range colorize.ClassLabels {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "- %g: %s\n", id, colorize.ClassLabels[id])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(colormapsCmd)
	colormapsCmd.AddCommand(colormapsShowCmd)
	colormapsCmd.AddCommand(colormapsClassesCmd)
	colormapsShowCmd.Flags().IntVar(&cmapSteps, "steps", chart.ColorBarSteps, "samples per continuous colormap")
}
