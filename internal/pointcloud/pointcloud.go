package pointcloud

import "fmt"

// Well-known column names used for derived views.
const (
	ColX     = "x"
	ColY     = "y"
	ColZ     = "z"
	ColRed   = "red"
	ColGreen = "green"
	ColBlue  = "blue"
	ColAlpha = "alpha"

	// ScalarPrefix is prepended to custom attributes by common exporters
	// (e.g. CloudCompare writes "scalar_class").
	ScalarPrefix = "scalar_"
)

// PointCloud is an immutable column store: one dense float32 column per
// declared property, all of the same length.
type PointCloud struct {
	names   []string
	columns map[string][]float32
	n       int

	skipped []string
	dropped int
}

// New builds a PointCloud from ordered names and matching columns.
// Every column must have the same length.
func New(names []string, columns [][]float32) (*PointCloud, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("columns: %d names for %d columns", len(names), len(columns))
	}
	pc := &PointCloud{
		names:   append([]string(nil), names...),
		columns: make(map[string][]float32, len(names)),
	}
	for i, name := range names {
		if i == 0 {
			pc.n = len(columns[i])
		} else if len(columns[i]) != pc.n {
			return nil, fmt.Errorf("column %q: length %d, want %d", name, len(columns[i]), pc.n)
		}
		pc.columns[name] = columns[i]
	}
	return pc, nil
}

// WithDiagnostics records parse diagnostics on the cloud. It is meant for
// parsers and returns the receiver.
func (pc *PointCloud) WithDiagnostics(skippedProperties []string, droppedRows int) *PointCloud {
	pc.skipped = append([]string(nil), skippedProperties...)
	pc.dropped = droppedRows
	return pc
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return pc.n }

// Names returns the column names in declaration order.
func (pc *PointCloud) Names() []string { return append([]string(nil), pc.names...) }

// SkippedProperties lists header declarations that were not exactly
// "property <type> <name>" (list properties, mostly) and therefore have no column.
func (pc *PointCloud) SkippedProperties() []string { return append([]string(nil), pc.skipped...) }

// DroppedRows is the number of data lines whose token count did not match the schema.
func (pc *PointCloud) DroppedRows() int { return pc.dropped }

// Column returns the raw column for an exact name. The returned slice is
// shared with the cloud and must not be modified.
func (pc *PointCloud) Column(name string) ([]float32, bool) {
	c, ok := pc.columns[name]
	return c, ok
}

// Has reports whether all named columns are present.
func (pc *PointCloud) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := pc.columns[n]; !ok {
			return false
		}
	}
	return true
}

// Scalar looks up an attribute column by name, falling back to the
// "scalar_" prefixed form so that "class" finds "scalar_class".
func (pc *PointCloud) Scalar(name string) ([]float32, bool) {
	if c, ok := pc.columns[name]; ok {
		return c, true
	}
	c, ok := pc.columns[ScalarPrefix+name]
	return c, ok
}

// ResolveName returns the stored column name that Scalar(name) would read.
func (pc *PointCloud) ResolveName(name string) (string, bool) {
	if _, ok := pc.columns[name]; ok {
		return name, true
	}
	if _, ok := pc.columns[ScalarPrefix+name]; ok {
		return ScalarPrefix + name, true
	}
	return "", false
}

// ScalarNames returns every column that is not part of the position or base
// color channels, in declaration order.
func (pc *PointCloud) ScalarNames() []string {
	out := make([]string, 0, len(pc.names))
	for _, n := range pc.names {
		switch n {
		case ColX, ColY, ColZ, ColRed, ColGreen, ColBlue, ColAlpha:
			continue
		}
		out = append(out, n)
	}
	return out
}

// Position interleaves x,y,z into a 3-wide buffer. ok is false unless all
// three columns exist.
func (pc *PointCloud) Position() (pos []float32, ok bool) {
	if !pc.Has(ColX, ColY, ColZ) {
		return nil, false
	}
	return pc.interleave(pc.columns[ColX], pc.columns[ColY], pc.columns[ColZ], 1), true
}

// BaseColor interleaves red,green,blue divided by 255.
func (pc *PointCloud) BaseColor() (rgb []float32, ok bool) {
	if !pc.Has(ColRed, ColGreen, ColBlue) {
		return nil, false
	}
	return pc.interleave(pc.columns[ColRed], pc.columns[ColGreen], pc.columns[ColBlue], 1.0/255), true
}

func (pc *PointCloud) interleave(a, b, c []float32, scale float32) []float32 {
	out := make([]float32, pc.n*3)
	for i := 0; i < pc.n; i++ {
		out[i*3] = a[i] * scale
		out[i*3+1] = b[i] * scale
		out[i*3+2] = c[i] * scale
	}
	return out
}
