package analysis

import (
	"math"
	"testing"
)

func TestPercentileMedian(t *testing.T) {
	if got := Percentile([]float32{1, 2, 3, 4, 5}, 50); got != 3 {
		t.Fatalf("percentile(50) = %v, want 3", got)
	}
}

func TestPercentileInterpolates(t *testing.T) {
	vals := []float32{10, 0, 20, 30}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{100, 30},
		{50, 15},
		{25, 7.5},
		{1, 0.3},
	}
	for _, c := range cases {
		got := Percentile(vals, c.p)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("percentile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	// input untouched
	if vals[0] != 10 || vals[1] != 0 {
		t.Fatalf("input was reordered: %v", vals)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	vals := []float32{3.5, -1, 8, 8, 0.25, 12, -7, 4}
	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 0.5 {
		got := Percentile(vals, p)
		if got < prev {
			t.Fatalf("percentile decreased at p=%v: %v < %v", p, got, prev)
		}
		prev = got
	}
}

func TestPercentileMonotonicWithRepeatedValues(t *testing.T) {
	for _, x := range []float32{0.1, 0.3, 0.7, 3.3, 123.456} {
		vals := []float32{x, x, x, x, x, x, x}
		prev := math.Inf(-1)
		for p := 0.0; p <= 100; p += 0.37 {
			got := Percentile(vals, p)
			if got < prev {
				t.Fatalf("x=%v: percentile decreased at p=%v: %.20g < %.20g", x, p, got, prev)
			}
			if got != float64(x) {
				t.Fatalf("x=%v: percentile(%v) = %.20g, want the repeated value", x, p, got)
			}
			prev = got
		}
	}
	// plateaus between distinct values
	vals := []float32{0.1, 0.1, 0.1, 0.7, 0.7, 0.7, 3.3}
	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 0.37 {
		got := Percentile(vals, p)
		if got < prev || got > float64(float32(3.3)) {
			t.Fatalf("percentile(%v) = %.20g after %.20g", p, got, prev)
		}
		prev = got
	}
}

func TestPercentileIgnoresInfinities(t *testing.T) {
	inf := float32(math.Inf(1))
	if got := Percentile([]float32{-inf, inf}, 50); !math.IsNaN(got) {
		t.Fatalf("percentile of only infinities = %v, want NaN", got)
	}
	if got := Percentile([]float32{-inf, 1, 3, inf}, 100); got != 3 {
		t.Fatalf("percentile(100) = %v, want 3", got)
	}
	if got := Percentile([]float32{-inf, 1, 3, inf}, 0); got != 1 {
		t.Fatalf("percentile(0) = %v, want 1", got)
	}
}

func TestPercentileNaNRank(t *testing.T) {
	if got := Percentile([]float32{1, 2, 3}, math.NaN()); !math.IsNaN(got) {
		t.Fatalf("percentile(NaN) = %v, want NaN", got)
	}
}

func TestPercentileIgnoresNaN(t *testing.T) {
	nan := float32(math.NaN())
	if got := Percentile([]float32{nan, 1, nan, 3}, 50); got != 2 {
		t.Fatalf("percentile with NaN = %v, want 2", got)
	}
	if got := Percentile([]float32{nan}, 50); !math.IsNaN(got) {
		t.Fatalf("all-NaN percentile = %v, want NaN", got)
	}
	if got := Percentile(nil, 50); !math.IsNaN(got) {
		t.Fatalf("empty percentile = %v, want NaN", got)
	}
}

func TestMedianMAD(t *testing.T) {
	med, mad := medianMAD([]float64{1, 1, 2, 2, 4, 6, 9})
	if med != 2 || mad != 1 {
		t.Fatalf("median=%v mad=%v, want 2 and 1", med, mad)
	}
}
