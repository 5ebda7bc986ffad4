package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// integerColumns are written without a fractional part.
var integerColumns = map[string]bool{"class": true, "ground_truth": true}

// WriteCSV writes one row per point with a leading ID column. The "scalar_"
// prefix is stripped from names; red/green/blue (or r/g/b) given in [0,1]
// are scaled to 0..255 and all color channels are written as integers.
// NaN is written as an empty cell.
func WriteCSV(w io.Writer, pc *pointcloud.PointCloud) error {
	names := pc.Names()
	header := make([]string, 0, len(names)+1)
	header = append(header, "ID")
	for _, n := range names {
		header = append(header, strings.TrimPrefix(n, pointcloud.ScalarPrefix))
	}

	colorScale := map[string]float64{}
	for _, set := range [][3]string{{"red", "green", "blue"}, {"r", "g", "b"}} {
		if !pc.Has(set[0], set[1], set[2]) {
			continue
		}
		scale := 1.0
		if unitRange(pc, set[0]) {
			scale = 255
		}
		for _, n := range set {
			colorScale[n] = scale
		}
		break
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	cols := make([][]float32, len(names))
	for j, n := range names {
		cols[j], _ = pc.Column(n)
	}
	rec := make([]string, len(header))
	for i := 0; i < pc.Len(); i++ {
		rec[0] = strconv.Itoa(i)
		for j, n := range names {
			v := float64(cols[j][i])
			switch {
			case math.IsNaN(v):
				rec[j+1] = ""
			case integerColumns[strings.TrimPrefix(n, pointcloud.ScalarPrefix)] && math.IsInf(v, 0):
				rec[j+1] = ""
			case colorScale[n] > 0:
				rec[j+1] = strconv.Itoa(int(math.Max(0, math.Min(255, math.Round(v*colorScale[n])))))
			case integerColumns[strings.TrimPrefix(n, pointcloud.ScalarPrefix)]:
				rec[j+1] = strconv.FormatInt(int64(v), 10)
			default:
				rec[j+1] = strconv.FormatFloat(v, 'g', -1, 32)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// unitRange reports whether every value of the column is <= 1. A NaN
// anywhere means the range is unknown and the column is left unscaled.
func unitRange(pc *pointcloud.PointCloud, name string) bool {
	c, _ := pc.Column(name)
	for _, v := range c {
		if !(v <= 1) {
			return false
		}
	}
	return true
}
