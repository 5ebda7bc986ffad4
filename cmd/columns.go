package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/colorize"
	"github.com/KaramelBytes/plyview/internal/parser"
	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file.ply>",
	Short: "List the columns of a point cloud and the presets they enable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d points\n", pc.Len())
		for _, n := range pc.Names() {
			short := strings.TrimPrefix(n, pointcloud.ScalarPrefix)
			if short != n {
				fmt.Fprintf(w, "  %s (as %s)\n", n, short)
				continue
			}
			fmt.Fprintf(w, "  %s\n", n)
		}
		for _, sp := range pc.SkippedProperties() {
			fmt.Fprintf(w, "  skipped: %s\n", sp)
		}

		var presets []string
		for _, p := range colorize.Presets() {
			if presetAvailable(pc, p) {
				presets = append(presets, string(p))
			}
		}
		if len(presets) == 0 {
			presets = []string{"(none)"}
		}
		fmt.Fprintf(w, "presets: %s\n", strings.Join(presets, ", "))
		if n := pc.DroppedRows(); n > 0 {
			warnf("%d malformed rows dropped", n)
		}
		return nil
	},
}

func presetAvailable(pc *pointcloud.PointCloud, p colorize.Preset) bool {
	if p == colorize.PresetRGB {
		return pc.Has(pointcloud.ColRed, pointcloud.ColGreen, pointcloud.ColBlue)
	}
	_, ok := pc.Scalar(string(p))
	return ok
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
