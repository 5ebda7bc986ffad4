package parser_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/plyview/internal/parser"
)

const minimalPLY = `ply
format ascii 1.0
element vertex 2
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
property float scalar_class
end_header
0.5 1.0 -2.0 255 128 0 3
1.5 2.0 4.0 0 64 255 7
`

func TestParseMinimalDocument(t *testing.T) {
	pc, err := parser.Parse(minimalPLY)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pc.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", pc.Len())
	}
	want := []string{"x", "y", "z", "red", "green", "blue", "scalar_class"}
	if got := pc.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v, want %v", got, want)
	}
	pos, ok := pc.Position()
	if !ok || len(pos) != 6 {
		t.Fatalf("expected 6 position values, got %d (ok=%v)", len(pos), ok)
	}
	if pos[3] != 1.5 || pos[5] != 4.0 {
		t.Fatalf("unexpected interleaving: %v", pos)
	}
	rgb, ok := pc.BaseColor()
	if !ok {
		t.Fatalf("expected base color")
	}
	for i, c := range rgb {
		if c < 0 || c > 1 {
			t.Fatalf("color[%d] = %v out of [0,1]", i, c)
		}
	}
	if rgb[0] != 1 {
		t.Fatalf("red 255 should map to 1, got %v", rgb[0])
	}
	cls, ok := pc.Scalar("class")
	if !ok {
		t.Fatalf("expected scalar_class via bare name lookup")
	}
	if cls[0] != 3 || cls[1] != 7 {
		t.Fatalf("scalar_class = %v", cls)
	}
	if got := pc.ScalarNames(); len(got) != 1 || got[0] != "scalar_class" {
		t.Fatalf("scalar names = %v", got)
	}
}

func TestParseEmptyOrMalformed(t *testing.T) {
	cases := map[string]string{
		"no end_header":    "ply\nproperty float x\n1\n2\n",
		"no matching rows": "ply\nproperty float x\nproperty float y\nend_header\n1 2 3\n4\n",
		"header only":      "ply\nproperty float x\nend_header\n",
		"empty input":      "",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parser.Parse(doc)
			if !errors.Is(err, parser.ErrEmptyOrMalformed) {
				t.Fatalf("expected ErrEmptyOrMalformed, got %v", err)
			}
		})
	}
}

func TestParseDropsMismatchedRowsAndKeepsNaN(t *testing.T) {
	doc := "ply\nproperty float x\nproperty float v\nend_header\n" +
		"1 2\n" +
		"1 2 3\n" +
		"  \n" +
		"4 oops\n" +
		"\t5   6\r\n"
	pc, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pc.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", pc.Len())
	}
	if pc.DroppedRows() != 1 {
		t.Fatalf("expected 1 dropped row, got %d", pc.DroppedRows())
	}
	v, _ := pc.Column("v")
	if !math.IsNaN(float64(v[1])) {
		t.Fatalf("expected NaN for malformed token, got %v", v[1])
	}
	if v[2] != 6 {
		t.Fatalf("expected CRLF row to parse, got %v", v[2])
	}
}

func TestParseSkipsListProperties(t *testing.T) {
	doc := "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\n" +
		"element face 0\nproperty list uchar int vertex_indices\nend_header\n42\n"
	pc, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := pc.Names(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("names = %v", got)
	}
	skipped := pc.SkippedProperties()
	if len(skipped) != 1 || !strings.Contains(skipped[0], "vertex_indices") {
		t.Fatalf("skipped = %v", skipped)
	}
}

func TestParseDuplicatePropertyTakesLastValue(t *testing.T) {
	doc := "ply\nproperty float x\nproperty float x\nend_header\n1 2\n"
	pc, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	x, _ := pc.Column("x")
	if len(pc.Names()) != 1 || x[0] != 2 {
		t.Fatalf("names=%v x=%v", pc.Names(), x)
	}
}

func TestParseFilePLYAndUnsupported(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "room.PLY")
	if err := os.WriteFile(p, []byte(minimalPLY), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pc, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if pc.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", pc.Len())
	}

	other := filepath.Join(dir, "room.pcd")
	if err := os.WriteFile(other, []byte(minimalPLY), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := parser.ParseFile(other); !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
