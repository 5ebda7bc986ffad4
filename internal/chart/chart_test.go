package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/plyview/internal/analysis"
	"github.com/KaramelBytes/plyview/internal/colorize"
)

func sampleHistogram() analysis.Histogram {
	return analysis.Histogram{
		Field: "curvature",
		Label: "curvature",
		Bins: []analysis.Bin{
			{Lower: 0, Upper: 0.5, Count: 3},
			{Lower: 0.5, Upper: 1, Count: 5},
		},
		Excluded: 1,
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleHistogram(), "Frequency"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "not a png")
}

func TestSavePNGConstantAndEmpty(t *testing.T) {
	dir := t.TempDir()
	constant := analysis.Histogram{Field: "c", Bins: []analysis.Bin{{Lower: 2, Upper: 2, Count: 4}}}
	require.NoError(t, SavePNG(filepath.Join(dir, "plots", "c.png"), constant, "Frequency"))
	require.NoError(t, SavePNG(filepath.Join(dir, "empty.png"), analysis.Histogram{Field: "e", Bins: []analysis.Bin{}}, "Frequency"))
	_, err := os.Stat(filepath.Join(dir, "plots", "c.png"))
	assert.NoError(t, err)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleHistogram(), "Frequency"))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "[0, 0.5)")
	assert.Contains(t, html, "[0.5, 1]")
}

func TestBinLabel(t *testing.T) {
	assert.Equal(t, "[-1.5, 2)", BinLabel(analysis.Bin{Lower: -1.5, Upper: 2}, false))
	assert.Equal(t, "[0.3333, 1]", BinLabel(analysis.Bin{Lower: 1.0 / 3, Upper: 1}, true))
}

func TestLegendContinuous(t *testing.T) {
	src, ok := colorize.Colormap("rdbu")
	require.True(t, ok)
	res := &colorize.Result{Legend: colorize.Legend{Min: -2, Mid: 0, Max: 2, Mode: colorize.Diverging}, Source: src}

	out := Legend("attributions", res)
	assert.Contains(t, out, "attributions")
	assert.Contains(t, out, "-2")
	assert.Contains(t, out, "diverging")
	lines := strings.Split(out, "\n")
	// border + title + bar + labels + mode + border
	assert.Len(t, lines, 6)
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[len(lines)-1]))
}

func TestLegendClasses(t *testing.T) {
	pal, ok := colorize.Palette("observable10")
	require.True(t, ok)
	res := &colorize.Result{
		Legend:   colorize.Legend{Mode: colorize.Qualitative},
		Classes:  []colorize.ClassColor{{ID: 2, Color: pal.Palette[0]}, {ID: 42, Color: colorize.Fallback}},
		Unmapped: []float32{42},
		Source:   colorize.Explicit{},
	}
	out := Legend("class", res)
	assert.Contains(t, out, "2 Wall")
	assert.Contains(t, out, "42 (unmapped)")

	empty := Legend("class", &colorize.Result{Source: pal})
	assert.Contains(t, empty, "no classes")
	assert.Contains(t, Legend("rgb", &colorize.Result{}), "base colors")
}
