package analysis

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between the neighbouring order statistics (R-7).
// Non-finite entries are ignored; if nothing remains, or p is NaN, the
// result is NaN. values is not modified.
func Percentile(values []float32, p float64) float64 {
	sorted := finiteValues(values, false)
	if len(sorted) == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	sort.Float64s(sorted)
	return quantile(sorted, p/100)
}

// finiteValues copies values into a float64 slice, dropping NaN always and
// ±Inf too unless keepInf is set.
func finiteValues(values []float32, keepInf bool) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		x := float64(v)
		if math.IsNaN(x) || (!keepInf && math.IsInf(x, 0)) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 || math.IsNaN(q) {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	a, b := sorted[lo], sorted[hi]
	if lo == hi || a == b {
		return a
	}
	// keep the result inside [a, b] so it never decreases as q grows
	v := a + (pos-float64(lo))*(b-a)
	return math.Max(a, math.Min(b, v))
}
