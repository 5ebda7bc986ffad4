package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/analysis"
	"github.com/KaramelBytes/plyview/internal/parser"
	"github.com/KaramelBytes/plyview/internal/utils"
)

var (
	descOutputPath string
	descCorr       bool
	descOutliers   bool
	descOutlierThr float64
	descMaxCats    int
)

var describeCmd = &cobra.Command{
	Use:   "describe <file.ply>",
	Short: "Summarize every column of a point cloud as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		opt := describeOptions(cmd, c.PercentileLow, c.PercentileHigh, descCorr, descOutliers, descOutlierThr, descMaxCats)

		rep, err := describeFile(args[0], opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			successf(cmd.OutOrStdout(), "Wrote summary to %s", descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func describeOptions(cmd *cobra.Command, pLow, pHigh float64, corr, outliers bool, thr float64, maxCats int) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.PercentileLow, opt.PercentileHigh = pLow, pHigh
	opt.Correlations = corr
	if cmd.Flags().Changed("outliers") {
		opt.Outliers = outliers
	}
	if thr > 0 {
		opt.OutlierThreshold = thr
	}
	if maxCats > 0 {
		opt.MaxCategories = maxCats
	}
	return opt
}

func describeFile(path string, opt analysis.Options) (*analysis.Report, error) {
	start := time.Now()
	pc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	debugf("parsed %s: %d points, %d columns in %s", path, pc.Len(), len(pc.Names()), time.Since(start))
	return analysis.Describe(filepath.Base(path), pc, opt), nil
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().BoolVar(&descCorr, "correlations", false, "compute Pearson correlations among scalar attributes")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	describeCmd.Flags().IntVar(&descMaxCats, "max-categories", 32, "distinct-value limit for reporting a column as categorical")
}
