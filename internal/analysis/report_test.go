package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

func TestDescribeReport(t *testing.T) {
	nan := float32(math.NaN())
	pc, err := pointcloud.New(
		[]string{"x", "y", "z", "red", "green", "blue", "scalar_class", "scalar_attributions"},
		[][]float32{
			{0, 1, 2, 3, 4, 5},
			{0, 0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1, 1},
			{255, 0, 0, 255, 0, 0},
			{0, 255, 0, 0, 255, 0},
			{0, 0, 255, 0, 0, 255},
			{0, 2, 2, 7, 7, 7},
			{-0.1, 0.25, nan, 0.1, 0.2, 40},
		},
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	pc.WithDiagnostics([]string{"property list uchar int vertex_indices"}, 2)

	opt := DefaultOptions()
	opt.Correlations = true
	rep := Describe("room.ply", pc, opt)
	if rep.Points != 6 || len(rep.Cols) != 8 {
		t.Fatalf("points=%d cols=%d", rep.Points, len(rep.Cols))
	}
	kinds := map[string]string{}
	for _, c := range rep.Cols {
		kinds[c.Name] = c.Kind
	}
	if kinds["x"] != "position" || kinds["red"] != "color" || kinds["scalar_class"] != "categorical" || kinds["scalar_attributions"] != "scalar" {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
	attr := rep.Cols[7]
	if attr.NaN != 1 || attr.Finite != 5 || attr.Max != 40 {
		t.Fatalf("unexpected attribution summary: %+v", attr)
	}
	if attr.OutliersCount != 1 {
		t.Fatalf("expected the 40 to be flagged as outlier, got %d", attr.OutliersCount)
	}
	if rep.Corr == nil || len(rep.Corr.Columns) != 2 {
		t.Fatalf("expected a 2x2 correlation matrix, got %+v", rep.Corr)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[POINT CLOUD SUMMARY]",
		"File: room.ply",
		"Dropped rows: 2",
		"scalar_class: categorical",
		"0(1), 2(2), 7(3)",
		"[WARNINGS]",
		"vertex_indices",
		"scalar_attributions: 1 values are not numbers",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
