package colorize

import (
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var rampStops = map[string][]string{
	"viridis": {"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"inferno": {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"rdbu":    {"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"},
}

var palettes = map[string][]string{
	"observable10": {"#4269d0", "#efb118", "#ff725c", "#6cc5b0", "#3ca951", "#ff8ab7", "#a463f2", "#97bbf5", "#9c6b4e", "#9498a0"},
	"category10":   {"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"},
}

// Colormap returns a named continuous colormap (viridis, inferno, rdbu).
func Colormap(name string) (Continuous, bool) {
	hexes, ok := rampStops[strings.ToLower(name)]
	if !ok {
		return Continuous{}, false
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		stops[i], _ = colorful.Hex(h)
	}
	return Continuous{Name: strings.ToLower(name), At: ramp(stops)}, true
}

// Palette returns a named categorical palette (observable10, category10).
func Palette(name string) (Categorical, bool) {
	hexes, ok := palettes[strings.ToLower(name)]
	if !ok {
		return Categorical{}, false
	}
	p := Categorical{Name: strings.ToLower(name), Palette: make([]RGB, len(hexes))}
	for i, h := range hexes {
		c, _ := colorful.Hex(h)
		p.Palette[i] = fromColorful(c)
	}
	return p, true
}

// ColormapNames lists the built-in continuous colormaps.
func ColormapNames() []string { return sortedKeys(rampStops) }

// PaletteNames lists the built-in categorical palettes.
func PaletteNames() []string { return sortedKeys(palettes) }

// ramp interpolates linearly in RGB between evenly spaced stops. Positions
// outside [0,1] are clamped.
func ramp(stops []colorful.Color) func(float64) RGB {
	n := len(stops)
	return func(t float64) RGB {
		if math.IsNaN(t) {
			return Fallback
		}
		t = math.Max(0, math.Min(1, t))
		pos := t * float64(n-1)
		i := int(math.Floor(pos))
		if i >= n-1 {
			return fromColorful(stops[n-1])
		}
		return fromColorful(stops[i].BlendRgb(stops[i+1], pos-float64(i)))
	}
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
