package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/analysis"
	"github.com/KaramelBytes/plyview/internal/chart"
	"github.com/KaramelBytes/plyview/internal/utils"
)

var (
	histX      string
	histXLabel string
	histYLabel string
	histBins   int
	histPNG    string
	histHTML   string
	histData   string
)

const histBarWidth = 40

var histCmd = &cobra.Command{
	Use:   "hist <file.ply>",
	Short: "Bin one attribute into an equal-width histogram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if histX == "" {
			return fmt.Errorf("--x is required")
		}
		c, err := activeConfig()
		if err != nil {
			return err
		}
		bins := c.Bins
		if histBins > 0 {
			bins = histBins
		}

		sess, err := openSession(args[0], c.Settings())
		if err != nil {
			return err
		}
		req := analysis.NewPlotRequest(histX, histXLabel, histYLabel, bins)
		id, err := sess.AddPlot(req)
		if err != nil {
			return err
		}
		h, err := sess.Histogram(id)
		if err != nil {
			return err
		}
		debugf("plot %s: %d bins over %d values", id, len(h.Bins), h.Total())
		if h.Excluded > 0 {
			warnf("%s: %d non-finite values excluded", h.Field, h.Excluded)
		}

		w := cmd.OutOrStdout()
		fmt.Fprint(w, renderHistogram(h))

		_, yLabel := req.AxisLabels()
		if histPNG != "" {
			if err := chart.SavePNG(histPNG, h, yLabel); err != nil {
				return err
			}
			successf(w, "Wrote PNG histogram to %s", histPNG)
		}
		if histHTML != "" {
			if err := chart.SaveHTML(histHTML, h, yLabel); err != nil {
				return err
			}
			successf(w, "Wrote HTML histogram to %s", histHTML)
		}
		if histData != "" {
			b, err := utils.Marshal(histData, h)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(histData, b); err != nil {
				return fmt.Errorf("write histogram data: %w", err)
			}
			successf(w, "Wrote bins to %s", histData)
		}
		return nil
	},
}

// renderHistogram draws h as one text row per bin.
func renderHistogram(h analysis.Histogram) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (n=%d)\n", h.Label, h.Total())
	if len(h.Bins) == 0 {
		sb.WriteString("(no finite values)\n")
		return sb.String()
	}
	labels := make([]string, len(h.Bins))
	width := 0
	for i, b := range h.Bins {
		labels[i] = chart.BinLabel(b, i == len(h.Bins)-1)
		width = max(width, len(labels[i]))
	}
	peak := h.MaxCount()
	for i, b := range h.Bins {
		n := 0
		if peak > 0 {
			n = b.Count * histBarWidth / peak
		}
		fmt.Fprintf(&sb, "%-*s %8d %s\n", width, labels[i], b.Count, strings.Repeat("█", n))
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(histCmd)
	histCmd.Flags().StringVar(&histX, "x", "", "attribute to bin (bare or scalar_ prefixed name)")
	histCmd.Flags().StringVar(&histXLabel, "x-label", "", "x axis label (default: attribute name)")
	histCmd.Flags().StringVar(&histYLabel, "y-label", "", "y axis label (default: Frequency)")
	histCmd.Flags().IntVar(&histBins, "bins", 0, "number of bins (default from config)")
	histCmd.Flags().StringVar(&histPNG, "png", "", "write a PNG chart to this path")
	histCmd.Flags().StringVar(&histHTML, "html", "", "write an interactive HTML chart to this path")
	histCmd.Flags().StringVar(&histData, "data", "", "write the bins as YAML or JSON (by extension)")
}
