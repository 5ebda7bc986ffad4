package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/plyview/internal/analysis"
	"github.com/KaramelBytes/plyview/internal/utils"
)

// barColor matches the first entry of the observable10 palette.
var barColor = color.RGBA{R: 0x42, G: 0x69, B: 0xd0, A: 0xff}

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 5 * vg.Inch
)

func newHistogramPlot(h analysis.Histogram, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (n=%d)", h.Field, h.Total())
	p.X.Label.Text = h.Label
	p.Y.Label.Text = yLabel
	if len(h.Bins) == 0 {
		return p
	}

	bins := make([]plotter.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Lower, Max: b.Upper, Weight: float64(b.Count)}
	}
	// a constant column has a zero-width bin; give it some body
	if len(bins) == 1 && bins[0].Min == bins[0].Max {
		bins[0].Min -= 0.5
		bins[0].Max += 0.5
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     bins[0].Max - bins[0].Min,
		FillColor: barColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	hist.LineStyle.Width = vg.Points(0.5)
	p.Add(hist)
	return p
}

// WritePNG renders h as a PNG bar chart.
func WritePNG(w io.Writer, h analysis.Histogram, yLabel string) error {
	p := newHistogramPlot(h, yLabel)
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG renders h to path, creating parent directories.
func SavePNG(path string, h analysis.Histogram, yLabel string) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, h, yLabel); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// BinLabel formats a bin for category axes, e.g. "[0.1, 0.2)". The last bin
// is closed.
func BinLabel(b analysis.Bin, last bool) string {
	closing := ")"
	if last {
		closing = "]"
	}
	return "[" + formatTick(b.Lower) + ", " + formatTick(b.Upper) + closing
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// WriteHTML renders h as an interactive go-echarts bar chart page.
func WriteHTML(w io.Writer, h analysis.Histogram, yLabel string) error {
	x := make([]string, len(h.Bins))
	y := make([]opts.BarData, len(h.Bins))
	for i, b := range h.Bins {
		x[i] = BinLabel(b, i == len(h.Bins)-1)
		y[i] = opts.BarData{Value: b.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Histogram of " + h.Field, Width: "100%", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: h.Field, Subtitle: fmt.Sprintf("n=%d excluded=%d", h.Total(), h.Excluded)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: h.Label, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, NameLocation: "middle", NameGap: 40}),
	)
	bar.SetXAxis(x).
		AddSeries(h.Field, y, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#4269d0"}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// SaveHTML renders h to path, creating parent directories.
func SaveHTML(path string, h analysis.Histogram, yLabel string) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, h, yLabel); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
