package colorize

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with components in [0,1].
type RGB struct {
	R float32 `json:"r" yaml:"r"`
	G float32 `json:"g" yaml:"g"`
	B float32 `json:"b" yaml:"b"`
}

// Fallback is painted for unmapped classes and non-finite values.
var Fallback = RGB{0.5, 0.5, 0.5}

func fromColorful(c colorful.Color) RGB {
	c = c.Clamped()
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Clamped returns c with every component limited to [0,1]; NaN becomes 0.
func (c RGB) Clamped() RGB {
	return RGB{R: unit(c.R), G: unit(c.G), B: unit(c.B)}
}

func unit(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	}
	return 0
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string { return c.colorful().Clamped().Hex() }

// Bytes returns the color scaled to 0..255.
func (c RGB) Bytes() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

func to8(v float32) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// ColorSource is one of Continuous, Categorical or Explicit.
type ColorSource interface {
	source()
}

// Continuous maps a position in [0,1] to a color.
type Continuous struct {
	Name string
	At   func(t float64) RGB
}

// Categorical assigns palette entries to classes by rank.
type Categorical struct {
	Name    string
	Palette []RGB
}

// Explicit maps class identifiers to fixed colors.
type Explicit struct {
	Colors map[float32]RGB
}

func (Continuous) source()  {}
func (Categorical) source() {}
func (Explicit) source()    {}

// Gradient samples a continuous source at evenly spaced stops, for color bars.
func Gradient(c Continuous, steps int) []RGB {
	if steps < 2 {
		steps = 2
	}
	out := make([]RGB, steps)
	for i := range out {
		out[i] = c.At(float64(i) / float64(steps-1))
	}
	return out
}
