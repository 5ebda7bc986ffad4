package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plyview/internal/export"
	"github.com/KaramelBytes/plyview/internal/parser"
	"github.com/KaramelBytes/plyview/internal/utils"
)

var expOutPath string

var exportCmd = &cobra.Command{
	Use:   "export <file.ply>",
	Short: "Export a point cloud as CSV (or re-emit it as ASCII PLY)",
	Long: `Export every column with a leading ID column. The "scalar_" prefix is
stripped from names and colors stored in [0,1] are scaled to 0..255.
An --out path ending in .ply writes ASCII PLY instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		pc, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		out := expOutPath
		if out == "" {
			c, err := activeConfig()
			if err != nil {
				return err
			}
			out = filepath.Join(c.OutputDir, filepath.Base(utils.SiblingPath(path, "", ".csv")))
		}

		var buf bytes.Buffer
		if strings.EqualFold(filepath.Ext(out), ".ply") {
			err = export.WritePLY(&buf, pc, nil)
		} else {
			err = export.WriteCSV(&buf, pc)
		}
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		successf(cmd.OutOrStdout(), "Exported %d points to %s", pc.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutPath, "out", "o", "", "output path (default <output_dir>/<name>.csv)")
}
