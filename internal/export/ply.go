package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/plyview/internal/colorize"
	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// WritePLY writes pc as ASCII PLY. If colors is non-nil it replaces the
// red/green/blue channels (as uchar); an alpha column is kept as uchar and
// every scalar column is kept as float.
func WritePLY(w io.Writer, pc *pointcloud.PointCloud, colors []colorize.RGB) error {
	if colors != nil && len(colors) != pc.Len() {
		return fmt.Errorf("write ply: %d colors for %d points", len(colors), pc.Len())
	}
	bw := bufio.NewWriter(w)

	type column struct {
		name   string
		values []float32
		uchar  int // -1 float, else color channel index
	}
	const alphaChannel = 3
	var cols []column
	for _, n := range []string{pointcloud.ColX, pointcloud.ColY, pointcloud.ColZ} {
		if v, ok := pc.Column(n); ok {
			cols = append(cols, column{name: n, values: v, uchar: -1})
		}
	}
	base, hasBase := pc.BaseColor()
	if colors != nil || hasBase {
		for i, n := range []string{pointcloud.ColRed, pointcloud.ColGreen, pointcloud.ColBlue} {
			cols = append(cols, column{name: n, uchar: i})
		}
	}
	if v, ok := pc.Column(pointcloud.ColAlpha); ok {
		cols = append(cols, column{name: pointcloud.ColAlpha, values: v, uchar: alphaChannel})
	}
	for _, n := range pc.ScalarNames() {
		v, _ := pc.Column(n)
		cols = append(cols, column{name: n, values: v, uchar: -1})
	}

	fmt.Fprintf(bw, "ply\nformat ascii 1.0\nelement vertex %d\n", pc.Len())
	for _, c := range cols {
		typ := "float"
		if c.uchar >= 0 {
			typ = "uchar"
		}
		fmt.Fprintf(bw, "property %s %s\n", typ, c.name)
	}
	bw.WriteString("end_header\n")

	buf := make([]byte, 0, 64)
	for i := 0; i < pc.Len(); i++ {
		buf = buf[:0]
		var rgb [3]uint8
		if colors != nil {
			rgb[0], rgb[1], rgb[2] = colors[i].Bytes()
		} else if hasBase {
			c := colorize.RGB{R: base[i*3], G: base[i*3+1], B: base[i*3+2]}
			rgb[0], rgb[1], rgb[2] = c.Bytes()
		}
		for j, c := range cols {
			if j > 0 {
				buf = append(buf, ' ')
			}
			if c.uchar == alphaChannel {
				buf = strconv.AppendUint(buf, uint64(byteValue(c.values[i])), 10)
				continue
			}
			if c.uchar >= 0 {
				buf = strconv.AppendUint(buf, uint64(rgb[c.uchar]), 10)
				continue
			}
			buf = strconv.AppendFloat(buf, float64(c.values[i]), 'g', -1, 32)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write ply: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ply: %w", err)
	}
	return nil
}

// byteValue rounds v into 0..255; NaN becomes 0.
func byteValue(v float32) uint8 {
	x := float64(v)
	if math.IsNaN(x) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(255, x))))
}
