package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/history"
)

// CSVHistory loads historical datasets from {dir}/{dataset}.csv. This is
// the canonical backend: one file per dataset, re-read on every query.
// Data-availability problems (missing file, missing required column,
// malformed rows) degrade to an empty result with a logged warning; they
// are never surfaced as errors.
type CSVHistory struct {
	dir string
	loc *time.Location
}

// NewCSVHistory creates a CSV-backed history source rooted at dir.
// Dataset timestamps without zone information are read in loc.
func NewCSVHistory(dir string, loc *time.Location) *CSVHistory {
	return &CSVHistory{dir: dir, loc: loc}
}

// Ping verifies the dataset directory exists.
func (s *CSVHistory) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("dataset directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("dataset path %s is not a directory", s.dir)
	}
	return nil
}

// Load reads one dataset. Unknown datasets and unreadable files return an
// empty slice, not an error.
func (s *CSVHistory) Load(ctx context.Context, dataset string) ([]history.Record, error) {
	schema, ok := history.SchemaFor(dataset)
	if !ok {
		log.Printf("Warning: unknown dataset %q requested", dataset)
		return nil, nil
	}

	path := filepath.Join(s.dir, dataset+".csv")
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: dataset %s unavailable: %v", dataset, err)
		return nil, nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		log.Printf("Warning: failed to read %s header: %v", path, err)
		return nil, nil
	}

	// Build column index map from the header row
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := idx[schema.TimeColumn]; !ok {
		log.Printf("Warning: dataset %s missing required column %q, skipping", dataset, schema.TimeColumn)
		return nil, nil
	}
	if _, ok := idx[schema.TypeColumn]; !ok {
		log.Printf("Warning: dataset %s missing required column %q, skipping", dataset, schema.TypeColumn)
		return nil, nil
	}

	var records []history.Record
	dropped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row in %s: %v", path, err)
			continue
		}

		get := func(column string) (string, bool) {
			i, ok := idx[column]
			if !ok || i >= len(row) {
				return "", false
			}
			return strings.TrimSpace(row[i]), true
		}
		r, ok := schema.FromRow(get, s.loc)
		if !ok {
			dropped++
			continue
		}
		records = append(records, r)
	}
	if dropped > 0 {
		log.Printf("Warning: dropped %d rows with unparseable timestamps from %s", dropped, path)
	}

	return records, nil
}
