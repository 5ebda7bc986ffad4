package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PercentileLow != 1 || c.PercentileHigh != 99 || c.Bins != 30 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.SaliencyColormap != "rdbu" || c.CurvatureColormap != "viridis" || c.Palette != "observable10" {
		t.Fatalf("unexpected colormap defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	c := &Global{PercentileLow: 5, PercentileHigh: 95, Midpoint: 0.5, SaliencyColormap: "inferno",
		CurvatureColormap: "viridis", Palette: "category10", Bins: 12, ChunkSize: 1024, Workers: 2, OutputDir: dir}
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *c {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, *c)
	}
	s := got.Settings()
	if s.SaliencyColormap != "inferno" || s.PercentileHigh != 95 || s.ChunkSize != 1024 {
		t.Fatalf("settings not carried over: %+v", s)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("bins: 12\npalette: category10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PLYVIEW_BINS", "64")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Bins != 64 || c.Palette != "category10" {
		t.Fatalf("expected env bins=64 and file palette, got %+v", c)
	}
}

func TestValidateRejectsBadPercentiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.PercentileLow, c.PercentileHigh = 90, 10
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
	c.PercentileLow, c.PercentileHigh = 1, 99
	c.Palette = "rainbow"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected unknown palette error")
	}
}

func TestDefaultsIgnoreConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := Save(&Global{Bins: 7}, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	c, err := Defaults()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if c.Bins != 30 || c.Workers != 4 || c.ChunkSize != 1<<16 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	loaded, err := Load("")
	if err != nil || loaded.Bins != 7 {
		t.Fatalf("expected saved bins from default path, got %+v %v", loaded, err)
	}
}
