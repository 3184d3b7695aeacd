package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kumitokiru/NowAlert/internal/history"
)

// PostgresHistory loads historical datasets from PostgreSQL, one table per
// dataset, with the same dynamic column mapping as the SQLite backend.
type PostgresHistory struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresHistory opens a Postgres-backed history source.
func NewPostgresHistory(databaseURL string, loc *time.Location) (*PostgresHistory, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresHistory{pool: pool, loc: loc}, nil
}

// Close releases the connection pool.
func (s *PostgresHistory) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *PostgresHistory) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Load reads one dataset table. A missing table or failing query degrades
// to an empty result with a logged warning.
func (s *PostgresHistory) Load(ctx context.Context, dataset string) ([]history.Record, error) {
	schema, ok := history.SchemaFor(dataset)
	if !ok {
		log.Printf("Warning: unknown dataset %q requested", dataset)
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, "SELECT * FROM "+dataset)
	if err != nil {
		log.Printf("Warning: dataset %s unavailable: %v", dataset, err)
		return nil, nil
	}
	defer rows.Close()

	// Same normalization as the CSV header map
	idx := make(map[string]int)
	for i, fd := range rows.FieldDescriptions() {
		idx[strings.ToLower(strings.TrimSpace(fd.Name))] = i
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
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			log.Printf("Warning: skipping unreadable row in %s: %v", dataset, err)
			continue
		}
		get := func(column string) (string, bool) {
			i, ok := idx[column]
			if !ok || i >= len(values) {
				return "", false
			}
			return valueString(values[i]), true
		}
		r, ok := schema.FromRow(get, s.loc)
		if !ok {
			dropped++
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Warning: dataset %s read aborted: %v", dataset, err)
	}
	if dropped > 0 {
		log.Printf("Warning: dropped %d rows with unparseable timestamps from %s", dropped, dataset)
	}

	return records, nil
}
