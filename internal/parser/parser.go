package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

// Parser defines a point cloud format implementation.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (*pointcloud.PointCloud, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile selects a parser based on filename and returns the parsed cloud.
func ParseFile(path string) (*pointcloud.PointCloud, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	for _, p := range registry {
		if p.CanParse(path) {
			pc, err := p.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			return pc, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

func init() {
	Register(plyParser{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported point cloud format")

// ErrEmptyOrMalformed is returned when a document has no end_header line or
// no data row matches the declared schema.
var ErrEmptyOrMalformed = errors.New("no valid vertex data parsed")
