package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesDirs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "legend.yaml")
	if err := SafeWriteFile(p, []byte("min: 0\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "min: 0\n" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestMarshalByExtension(t *testing.T) {
	v := map[string]int{"bins": 3}
	j, err := Marshal("x.JSON", v)
	if err != nil || !strings.Contains(string(j), "\"bins\": 3") {
		t.Fatalf("json: %s %v", j, err)
	}
	y, err := Marshal("x.yaml", v)
	if err != nil || strings.TrimSpace(string(y)) != "bins: 3" {
		t.Fatalf("yaml: %s %v", y, err)
	}
}

func TestSiblingPath(t *testing.T) {
	if got := SiblingPath("a/room.ply", ".colored", ".ply"); got != "a/room.colored.ply" {
		t.Fatalf("got %s", got)
	}
}
