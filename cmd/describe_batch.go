package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/plyview/internal/utils"
)

var (
	dbOutDir     string
	dbCorr       bool
	dbOutliers   bool
	dbOutlierThr float64
	dbMaxCats    int
	dbKeepGoing  bool
	dbQuiet      bool
)

var describeBatchCmd = &cobra.Command{
	Use:   "describe-batch <files...>",
	Short: "Describe multiple PLY files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := activeConfig()
		if err != nil {
			return err
		}
		opt := describeOptions(cmd, c.PercentileLow, c.PercentileHigh, dbCorr, dbOutliers, dbOutlierThr, dbMaxCats)

		outDir := dbOutDir
		results := make([]string, len(files))
		var done, failed atomic.Int32
		total := len(files)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(1, c.Workers))
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rep, err := describeFile(path, opt)
				if err != nil {
					if dbKeepGoing {
						failed.Add(1)
						warnf("%v", err)
						return nil
					}
					return err
				}
				md := rep.Markdown()
				if outDir != "" {
					out := filepath.Join(outDir, summaryName(path, files))
					if err := utils.SafeWriteFile(out, []byte(md)); err != nil {
						return fmt.Errorf("write summary: %w", err)
					}
				} else {
					results[i] = md
				}
				if !dbQuiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", done.Add(1), total, filepath.Base(path))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, md := range results {
			if md != "" {
				fmt.Fprintln(w, md)
			}
		}
		if outDir != "" {
			successf(w, "Wrote %d summaries to %s", total-int(failed.Load()), outDir)
		}
		if n := failed.Load(); n > 0 {
			return fmt.Errorf("%d of %d files failed", n, total)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, de-duplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// summaryName derives "<base>.summary.md", prefixing the parent directory
// when another input shares the base name.
func summaryName(path string, all []string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, other := range all {
		if other != path && filepath.Base(other) == base {
			stem = filepath.Base(filepath.Dir(path)) + "__" + stem
			break
		}
	}
	return stem + ".summary.md"
}

func init() {
	rootCmd.AddCommand(describeBatchCmd)
	describeBatchCmd.Flags().StringVar(&dbOutDir, "out-dir", "", "write one <name>.summary.md per input into this directory instead of stdout")
	describeBatchCmd.Flags().BoolVar(&dbCorr, "correlations", false, "compute Pearson correlations among scalar attributes")
	describeBatchCmd.Flags().BoolVar(&dbOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeBatchCmd.Flags().Float64Var(&dbOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	describeBatchCmd.Flags().IntVar(&dbMaxCats, "max-categories", 32, "distinct-value limit for reporting a column as categorical")
	describeBatchCmd.Flags().BoolVar(&dbKeepGoing, "keep-going", false, "warn about unreadable files and continue with the rest")
	describeBatchCmd.Flags().BoolVar(&dbQuiet, "quiet", false, "suppress progress output")
}
