package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// Marshal encodes v as YAML or JSON depending on the extension of path
// (.json selects JSON, anything else YAML).
func Marshal(path string, v any) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return PrettyJSON(v)
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// SiblingPath replaces the extension of path and appends suffix, e.g.
// SiblingPath("a/room.ply", ".colored", ".ply") == "a/room.colored.ply".
func SiblingPath(path, suffix, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + suffix + ext
}
