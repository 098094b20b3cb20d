// Package markers loads per-camera marker tables from CSV. One file holds
// one camera's track of a recording segment: a time column followed by
// <Marker>_x/<Marker>_y coordinate pairs, with empty or NaN cells marking
// tracking dropouts.
package markers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lrlcardoso/GrossMovDetector/internal/trace"
)

// Table is one camera's marker coordinates over a recording segment.
type Table struct {
	Timestamps []float64
	columns    map[string][]float64
}

// Load reads a marker table from a CSV file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open marker file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("marker file %s: %w", path, err)
	}
	return t, nil
}

// Read parses a marker table from r. The first column is the sample
// timestamp in seconds; the remaining header names label coordinate
// columns. Blank or NaN cells become the missing-value sentinel.
// Timestamps must be present and strictly increasing.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data records")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("header must have a time column and at least one marker column")
	}

	t := &Table{columns: make(map[string][]float64, len(header)-1)}
	for _, name := range header[1:] {
		t.columns[strings.TrimSpace(name)] = make([]float64, 0, len(records)-1)
	}

	for i, record := range records[1:] {
		line := i + 2
		if len(record) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(record))
		}

		ts, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp: %w", line, err)
		}
		if n := len(t.Timestamps); n > 0 && ts <= t.Timestamps[n-1] {
			return nil, fmt.Errorf("line %d: timestamp %v not increasing", line, ts)
		}
		t.Timestamps = append(t.Timestamps, ts)

		for c, name := range header[1:] {
			key := strings.TrimSpace(name)
			t.columns[key] = append(t.columns[key], parseCell(record[c+1]))
		}
	}
	return t, nil
}

// parseCell converts a coordinate cell to a float, mapping blank and NaN
// spellings to the gap sentinel.
func parseCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "nan") {
		return trace.Gap()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return trace.Gap()
	}
	return v
}

// Column returns the named coordinate column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("marker column %q not present", name)
	}
	return col, nil
}

// Marker returns the x and y columns of the named marker.
func (t *Table) Marker(name string) (xs, ys []float64, err error) {
	xs, err = t.Column(name + "_x")
	if err != nil {
		return nil, nil, err
	}
	ys, err = t.Column(name + "_y")
	if err != nil {
		return nil, nil, err
	}
	return xs, ys, nil
}

// Len returns the number of samples in the table.
func (t *Table) Len() int {
	return len(t.Timestamps)
}
