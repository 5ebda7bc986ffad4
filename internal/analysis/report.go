package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// Options controls the column report.
type Options struct {
	// PercentileLow/High are the clipping bounds reported per column.
	PercentileLow  float64
	PercentileHigh float64
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// Correlations computes Pearson correlations among scalar attribute columns.
	Correlations bool
	// MaxCategories is the distinct-value limit under which a column is
	// reported as categorical (class labels and the like).
	MaxCategories int
}

// DefaultOptions returns the defaults used by the describe command.
func DefaultOptions() Options {
	return Options{
		PercentileLow:    1,
		PercentileHigh:   99,
		Outliers:         true,
		OutlierThreshold: 3.5,
		MaxCategories:    32,
	}
}

// Report summarizes every column of a point cloud.
type Report struct {
	Name     string
	Points   int
	Dropped  int
	Cols     []ColumnSummary
	Warnings []string
	Corr     *CorrMatrix
}

// ColumnSummary captures statistics for one column. Statistics cover finite
// values only.
type ColumnSummary struct {
	Name   string
	Kind   string // position|color|categorical|scalar
	Finite int
	NaN    int
	Inf    int
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	PLow   float64
	PHigh  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutlierThreshold float64
	// Classes holds the distinct values for categorical columns.
	Classes []CategoryCount
}

type CategoryCount struct {
	Value float64
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across scalar columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Describe builds a Report for pc. name is the display name of the source.
func Describe(name string, pc *pointcloud.PointCloud, opt Options) *Report {
	rep := &Report{Name: name, Points: pc.Len(), Dropped: pc.DroppedRows()}
	for _, sp := range pc.SkippedProperties() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("header declaration ignored: %s", sp))
	}
	if pc.DroppedRows() > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d data rows did not match the %d-column schema and were dropped", pc.DroppedRows(), len(pc.Names())))
	}
	for _, col := range pc.Names() {
		values, _ := pc.Column(col)
		cs := summarize(col, values, opt)
		cs.Kind = columnKind(col, cs, opt)
		if cs.Kind != "categorical" {
			cs.Classes = nil
		}
		if cs.NaN > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d values are not numbers", col, cs.NaN))
		}
		rep.Cols = append(rep.Cols, cs)
	}
	if opt.Correlations {
		rep.Corr = correlations(pc)
	}
	return rep
}

func columnKind(name string, cs ColumnSummary, opt Options) string {
	switch name {
	case pointcloud.ColX, pointcloud.ColY, pointcloud.ColZ:
		return "position"
	case pointcloud.ColRed, pointcloud.ColGreen, pointcloud.ColBlue, pointcloud.ColAlpha:
		return "color"
	}
	if len(cs.Classes) > 0 && len(cs.Classes) <= opt.MaxCategories {
		integral := true
		for _, c := range cs.Classes {
			if c.Value != math.Trunc(c.Value) {
				integral = false
				break
			}
		}
		if integral {
			return "categorical"
		}
	}
	return "scalar"
}

func summarize(name string, values []float32, opt Options) ColumnSummary {
	cs := ColumnSummary{Name: name}
	cs.NaN, cs.Inf = countNonFinite(values)
	finite := finiteValues(values, false)
	cs.Finite = len(finite)
	if len(finite) == 0 {
		return cs
	}
	cs.Min, cs.Max = floats.Min(finite), floats.Max(finite)
	cs.Mean, cs.Std = stat.MeanStdDev(finite, nil)
	if len(finite) < 2 {
		cs.Std = 0
	}

	sorted := append([]float64(nil), finite...)
	sort.Float64s(sorted)
	cs.PLow = quantile(sorted, opt.PercentileLow/100)
	cs.PHigh = quantile(sorted, opt.PercentileHigh/100)

	counts := map[float64]int{}
	for _, v := range sorted {
		if len(counts) > opt.MaxCategories {
			break
		}
		counts[v]++
	}
	if len(counts) <= opt.MaxCategories {
		for v, n := range counts {
			cs.Classes = append(cs.Classes, CategoryCount{Value: v, Count: n})
		}
		sort.Slice(cs.Classes, func(i, j int) bool { return cs.Classes[i].Value < cs.Classes[j].Value })
	}

	if opt.Outliers && len(finite) >= 5 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		med, mad := medianMAD(finite)
		if mad > 0 {
			for _, x := range finite {
				// 0.6745 scales MAD to the standard deviation of a normal distribution
				if math.Abs(0.6745*(x-med)/mad) > thr {
					cs.OutliersCount++
				}
			}
			cs.OutlierThreshold = thr
		}
	}
	return cs
}

// correlations computes pairwise Pearson r over rows where both values are finite.
func correlations(pc *pointcloud.PointCloud) *CorrMatrix {
	names := pc.ScalarNames()
	if len(names) < 2 {
		return nil
	}
	m := &CorrMatrix{Columns: names, Values: make([][]float64, len(names))}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(names))
		m.Values[i][i] = 1
	}
	for i := 0; i < len(names); i++ {
		a, _ := pc.Column(names[i])
		for j := i + 1; j < len(names); j++ {
			b, _ := pc.Column(names[j])
			xs := make([]float64, 0, len(a))
			ys := make([]float64, 0, len(b))
			for k := range a {
				x, y := float64(a[k]), float64(b[k])
				if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}
			r := math.NaN()
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[POINT CLOUD SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Points: %d\n", r.Points))
	if r.Dropped > 0 {
		b.WriteString(fmt.Sprintf("Dropped rows: %d\n", r.Dropped))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (finite %d", c.Name, c.Kind, c.Finite))
		if c.NaN > 0 {
			b.WriteString(fmt.Sprintf(", NaN %d", c.NaN))
		}
		if c.Inf > 0 {
			b.WriteString(fmt.Sprintf(", Inf %d", c.Inf))
		}
		b.WriteString(")")
		if c.Finite == 0 {
			b.WriteString("\n")
			continue
		}
		switch c.Kind {
		case "categorical":
			b.WriteString(" — classes: ")
			for i, kv := range c.Classes {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%g(%d)", kv.Value, kv.Count))
			}
		default:
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g, p-range [%.4g, %.4g]", c.Min, c.Max, c.Mean, c.Std, c.PLow, c.PHigh))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			}
		}
		b.WriteString("\n")
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.IsNaN(r.Corr.Values[i][j]) {
					continue
				}
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		lim := 10
		if len(pairs) < lim {
			lim = len(pairs)
		}
		for i := 0; i < lim; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
