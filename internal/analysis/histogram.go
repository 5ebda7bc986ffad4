package analysis

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// DefaultBinCount is used when a request asks for fewer than one bin.
const DefaultBinCount = 30

// Bin is one histogram interval. Every bin is half-open [Lower, Upper)
// except the last, which also includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram is the binned distribution of one column.
type Histogram struct {
	Field string `json:"field" yaml:"field"`
	Label string `json:"label" yaml:"label"`
	Bins  []Bin  `json:"bins" yaml:"bins"`
	// Excluded counts NaN and ±Inf values, which are never binned.
	Excluded int `json:"excluded" yaml:"excluded"`
}

// Total is the number of binned values.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h.Bins {
		n += b.Count
	}
	return n
}

// MaxCount returns the largest bin count, or 0 for an empty histogram.
func (h Histogram) MaxCount() int {
	m := 0
	for _, b := range h.Bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// BinValues partitions the finite values into binCount equal-width bins
// spanning [min, max]. A constant column yields a single [v, v] bin.
func BinValues(values []float32, binCount int) []Bin {
	if binCount < 1 {
		binCount = DefaultBinCount
	}
	finite := finiteValues(values, false)
	if len(finite) == 0 {
		return []Bin{}
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(finite)}}
	}

	width := (hi - lo) / float64(binCount)
	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		if i > 0 {
			bins[i-1].Upper = bins[i].Lower
		}
	}
	bins[binCount-1].Upper = hi

	for _, v := range finite {
		i := int((v - lo) / width)
		if i >= binCount {
			i = binCount - 1
		}
		// rounding in the division can land one bin off the stored bounds
		for i > 0 && v < bins[i].Lower {
			i--
		}
		for i < binCount-1 && v >= bins[i+1].Lower {
			i++
		}
		bins[i].Count++
	}
	return bins
}

// PlotRequest asks for a histogram of one column, as issued by a chart panel.
type PlotRequest struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	X      string    `json:"x" yaml:"x"`
	XLabel string    `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Bins   int       `json:"bins,omitempty" yaml:"bins,omitempty"`
}

// NewPlotRequest assigns a fresh id to a request for column x.
func NewPlotRequest(x, xLabel, yLabel string, bins int) PlotRequest {
	return PlotRequest{ID: uuid.New(), X: x, XLabel: xLabel, YLabel: yLabel, Bins: bins}
}

// AxisLabels returns the labels a chart should print, defaulting the x label
// to the field name and the y label to "Frequency".
func (r PlotRequest) AxisLabels() (x, y string) {
	x, y = r.XLabel, r.YLabel
	if x == "" {
		x = r.X
	}
	if y == "" {
		y = "Frequency"
	}
	return x, y
}

// Build bins the requested column of pc.
func (r PlotRequest) Build(pc *pointcloud.PointCloud) (Histogram, error) {
	values, err := pc.Require(r.X)
	if err != nil {
		return Histogram{}, fmt.Errorf("plot %s: %w", r.X, err)
	}
	label, _ := r.AxisLabels()
	h := Histogram{Field: r.X, Label: label, Bins: BinValues(values, r.Bins)}
	h.Excluded = len(values) - h.Total()
	return h, nil
}

// countNonFinite is shared by the column report.
func countNonFinite(values []float32) (nan, inf int) {
	for _, v := range values {
		switch x := float64(v); {
		case math.IsNaN(x):
			nan++
		case math.IsInf(x, 0):
			inf++
		}
	}
	return nan, inf
}
