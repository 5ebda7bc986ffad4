package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

const endHeader = "end_header"

type plyParser struct{}

func (plyParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".ply")
}

func (plyParser) Parse(content []byte) (*pointcloud.PointCloud, error) {
	return Parse(string(content))
}

// Parse reads an ASCII PLY-like document into a column store.
//
// Only declarations of the exact form "property <type> <name>" become
// columns. List properties ("property list uchar int vertex_indices") are
// skipped and reported via SkippedProperties; files that carry them will
// usually have every data row dropped for a token count mismatch.
//
// Data rows whose token count differs from the column count are dropped.
// Tokens that are not numbers become NaN and the row is kept.
func Parse(text string) (*pointcloud.PointCloud, error) {
	lines := strings.Split(text, "\n")
	headerEnd := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == endHeader {
			headerEnd = i
			break
		}
	}
	if headerEnd < 0 {
		return nil, fmt.Errorf("missing %s: %w", endHeader, ErrEmptyOrMalformed)
	}

	declared, skipped := schema(lines[:headerEnd])
	ncol := len(declared)
	names, source := dedupe(declared)

	var rows [][]float32
	dropped := 0
	for _, line := range lines[headerEnd+1:] {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) != ncol {
			dropped++
			continue
		}
		row := make([]float32, ncol)
		for j, tok := range tokens {
			row[j] = parseToken(tok)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%d columns declared, %d rows dropped: %w", ncol, dropped, ErrEmptyOrMalformed)
	}

	columns := make([][]float32, len(names))
	for k, j := range source {
		col := make([]float32, len(rows))
		for i, row := range rows {
			col[i] = row[j]
		}
		columns[k] = col
	}
	pc, err := pointcloud.New(names, columns)
	if err != nil {
		return nil, err
	}
	return pc.WithDiagnostics(skipped, dropped), nil
}

// schema extracts declared property names from header lines in order.
func schema(header []string) (names, skipped []string) {
	for _, line := range header {
		tokens := strings.Fields(line)
		if len(tokens) == 0 || tokens[0] != "property" {
			continue
		}
		if len(tokens) != 3 {
			skipped = append(skipped, strings.Join(tokens, " "))
			continue
		}
		names = append(names, tokens[2])
	}
	return names, skipped
}

// dedupe collapses repeated property names. Every declaration still counts
// towards the row width; the column keeps its first position and takes its
// values from the last declaration with that name.
func dedupe(declared []string) (names []string, source []int) {
	pos := map[string]int{}
	for j, name := range declared {
		if k, ok := pos[name]; ok {
			source[k] = j
			continue
		}
		pos[name] = len(names)
		names = append(names, name)
		source = append(source, j)
	}
	return names, source
}

func parseToken(tok string) float32 {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		// out-of-range literals saturate to ±Inf like other numeric readers
		if errors.Is(err, strconv.ErrRange) {
			return float32(v)
		}
		return float32(math.NaN())
	}
	return float32(v)
}
