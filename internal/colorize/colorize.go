package colorize

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/plyview/internal/analysis"
)

// Mode selects how values become colors.
type Mode int

const (
	Sequential Mode = iota
	Diverging
	Qualitative
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Diverging:
		return "diverging"
	case Qualitative:
		return "qualitative"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the lower-case mode names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential":
		return Sequential, nil
	case "diverging":
		return Diverging, nil
	case "qualitative", "categorical":
		return Qualitative, nil
	}
	return 0, fmt.Errorf("unknown color mode %q (use sequential|diverging|qualitative): %w", s, ErrInvalidConfig)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

var (
	// ErrInvalidConfig reports a config that violates 0 <= low < high <= 100
	// or names an unknown mode.
	ErrInvalidConfig = errors.New("invalid colorization config")
	// ErrSourceMismatch reports a color source that cannot serve the mode.
	ErrSourceMismatch = errors.New("color source does not match mode")
)

// DefaultChunkSize is the column length above which per-point mapping is
// split across goroutines.
const DefaultChunkSize = 1 << 16

// Config describes one colorization pass.
type Config struct {
	Mode           Mode
	PercentileLow  float64
	PercentileHigh float64
	Midpoint       float64
	Absolute       bool
	Source         ColorSource
	// ChunkSize overrides DefaultChunkSize; negative disables parallel mapping.
	ChunkSize int
}

// DefaultConfig is a diverging RdBu map clipped to the 1st/99th percentiles
// around zero.
func DefaultConfig() Config {
	rdbu, _ := Colormap("rdbu")
	return Config{
		Mode:           Diverging,
		PercentileLow:  1,
		PercentileHigh: 99,
		Source:         rdbu,
	}
}

// Validate checks the percentile bounds of continuous modes and that the
// source variant fits the mode.
func (c Config) Validate() error {
	switch c.Mode {
	case Sequential, Diverging:
		if !(c.PercentileLow >= 0 && c.PercentileLow < c.PercentileHigh && c.PercentileHigh <= 100) {
			return fmt.Errorf("percentiles [%g, %g]: %w", c.PercentileLow, c.PercentileHigh, ErrInvalidConfig)
		}
		if math.IsNaN(c.Midpoint) || math.IsInf(c.Midpoint, 0) {
			return fmt.Errorf("midpoint %g: %w", c.Midpoint, ErrInvalidConfig)
		}
		src, ok := c.Source.(Continuous)
		if !ok || src.At == nil {
			return fmt.Errorf("%s needs a continuous colormap: %w", c.Mode, ErrSourceMismatch)
		}
	case Qualitative:
		switch src := c.Source.(type) {
		case Categorical:
			if len(src.Palette) == 0 {
				return fmt.Errorf("empty palette: %w", ErrInvalidConfig)
			}
		case Explicit:
		default:
			return fmt.Errorf("qualitative needs a palette or class map: %w", ErrSourceMismatch)
		}
	default:
		return fmt.Errorf("mode %s: %w", c.Mode, ErrInvalidConfig)
	}
	return nil
}

// Legend is the exact domain used to color a column.
type Legend struct {
	Min  float64 `json:"min" yaml:"min"`
	Mid  float64 `json:"mid" yaml:"mid"`
	Max  float64 `json:"max" yaml:"max"`
	Mode Mode    `json:"mode" yaml:"mode"`
}

// ClassColor is one entry of a qualitative legend.
type ClassColor struct {
	ID    float32 `json:"id" yaml:"id"`
	Color RGB     `json:"color" yaml:"color"`
}

// Result holds per-point colors aligned with the input values.
type Result struct {
	Colors []RGB
	Legend Legend
	// Classes lists every class present, ascending, with its color.
	// Only set in qualitative mode.
	Classes []ClassColor
	// Unmapped lists classes missing from an explicit map; they are painted
	// with Fallback.
	Unmapped []float32
	// Source is the color source the pass used, nil for base colors.
	Source ColorSource `json:"-" yaml:"-"`
}

// Buffer flattens Colors into a 3-wide float32 buffer.
func (r *Result) Buffer() []float32 {
	out := make([]float32, len(r.Colors)*3)
	for i, c := range r.Colors {
		out[i*3] = c.R
		out[i*3+1] = c.G
		out[i*3+2] = c.B
	}
	return out
}

// Warnings describes non-fatal problems of the pass.
func (r *Result) Warnings() []string {
	var out []string
	for _, id := range r.Unmapped {
		out = append(out, fmt.Sprintf("no color for class %g, using fallback gray", id))
	}
	return out
}

// Colorize maps values to colors according to cfg. values is not modified.
func Colorize(values []float32, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == Qualitative {
		res := colorizeClasses(values, cfg.Source)
		res.Source = cfg.Source
		return res, nil
	}

	src := cfg.Source.(Continuous)
	vals := values
	if cfg.Absolute {
		vals = make([]float32, len(values))
		for i, v := range values {
			vals[i] = float32(math.Abs(float64(v)))
		}
	}
	d := computeDomain(vals, cfg)
	res := &Result{Colors: make([]RGB, len(vals)), Legend: d.legend(), Source: src}
	mapChunks(len(vals), cfg.ChunkSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			res.Colors[i] = d.color(src, vals[i])
		}
	})
	return res, nil
}

// domain is computed once per pass; both the per-point mapping and the
// legend read from it.
type domain struct {
	mode        Mode
	lo, mid, hi float64
	empty       bool
}

func computeDomain(vals []float32, cfg Config) domain {
	d := domain{mode: cfg.Mode, mid: cfg.Midpoint}
	finite := make([]float32, 0, len(vals))
	for _, v := range vals {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		d.empty = true
		return d
	}
	d.hi = analysis.Percentile(finite, cfg.PercentileHigh)
	if cfg.Mode == Diverging {
		d.lo = analysis.Percentile(finite, cfg.PercentileLow)
	}
	return d
}

func (d domain) legend() Legend {
	return Legend{Min: d.lo, Mid: d.mid, Max: d.hi, Mode: d.mode}
}

// clamp bounds v to the domain; the returned value is what the colormap sees.
func (d domain) clamp(v float64) float64 {
	lo, hi := d.lo, d.hi
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// position maps a clamped value to [0,1].
func (d domain) position(v float64) float64 {
	var t float64
	switch d.mode {
	case Diverging:
		k := 0.0
		if v < d.mid {
			if d.mid != d.lo {
				k = 0.5 / (d.mid - d.lo)
			}
		} else if d.hi != d.mid {
			k = 0.5 / (d.hi - d.mid)
		}
		t = 0.5 + (v-d.mid)*k
	default:
		if d.hi == d.lo {
			return 0.5
		}
		t = (v - d.lo) / (d.hi - d.lo)
	}
	return math.Max(0, math.Min(1, t))
}

func (d domain) color(src Continuous, v float32) RGB {
	if d.empty || !isFinite(v) {
		return Fallback
	}
	return src.At(d.position(d.clamp(float64(v)))).Clamped()
}

func colorizeClasses(values []float32, source ColorSource) *Result {
	ids := distinct(values)
	assigned := make(map[float32]RGB, len(ids))
	res := &Result{Colors: make([]RGB, len(values)), Legend: Legend{Mode: Qualitative}}

	switch src := source.(type) {
	case Categorical:
		for rank, id := range ids {
			assigned[id] = src.Palette[rank%len(src.Palette)].Clamped()
		}
	case Explicit:
		for _, id := range ids {
			if c, ok := src.Colors[id]; ok {
				assigned[id] = c.Clamped()
				continue
			}
			assigned[id] = Fallback
			res.Unmapped = append(res.Unmapped, id)
		}
	}
	for _, id := range ids {
		res.Classes = append(res.Classes, ClassColor{ID: id, Color: assigned[id]})
	}
	for i, v := range values {
		if c, ok := assigned[v]; ok {
			res.Colors[i] = c
		} else {
			// NaN never equals a map key
			res.Colors[i] = Fallback
		}
	}
	return res
}

// distinct returns the sorted distinct non-NaN values.
func distinct(values []float32) []float32 {
	seen := map[float32]struct{}{}
	for _, v := range values {
		if v != v {
			continue
		}
		seen[v] = struct{}{}
	}
	ids := make([]float32, 0, len(seen))
	for v := range seen {
		ids = append(ids, v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// mapChunks runs fn over [0,n) in chunks of chunkSize on separate goroutines.
func mapChunks(n, chunkSize int, fn func(lo, hi int)) {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < 0 || n <= chunkSize {
		fn(0, n)
		return
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < n; lo += chunkSize {
		lo := lo
		hi := min(lo+chunkSize, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func isFinite(v float32) bool {
	x := float64(v)
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
