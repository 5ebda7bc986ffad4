package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDescribeBatch_WritesSummariesWithoutCollisions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Two files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(d, "room.ply"), []byte(roomPLY), 0o644); err != nil {
			t.Fatalf("write ply: %v", err)
		}
	}

	outDir := filepath.Join(home, "summaries")
	out := runCmd(t, "describe-batch", filepath.Join(home, "d*", "room.ply"), "--out-dir", outDir, "--workers", "2", "--quiet")
	if !strings.Contains(out, "Wrote 2 summaries") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	for _, name := range []string{"d1__room.summary.md", "d2__room.summary.md"} {
		body, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(body), "[POINT CLOUD SUMMARY]") {
			t.Fatalf("%s is not a summary", name)
		}
	}
}

func TestDescribeBatch_KeepGoing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	good := filepath.Join(home, "good.ply")
	bad := filepath.Join(home, "bad.ply")
	if err := os.WriteFile(good, []byte(roomPLY), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("ply\nend_header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execCmd("describe-batch", good, bad); err == nil {
		t.Fatalf("expected failure without --keep-going")
	}
	out, err := execCmd("describe-batch", good, bad, "--keep-going", "--quiet")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if !strings.Contains(out, "good.ply") {
		t.Fatalf("good file should still be described:\n%s", out)
	}
}
