package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/history"

	_ "modernc.org/sqlite"
)

// SQLiteHistory loads historical datasets from a SQLite database, one
// table per dataset. Columns are mapped dynamically from the result set so
// a table missing an optional column degrades exactly like a CSV missing
// that header.
type SQLiteHistory struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteHistory opens a SQLite-backed history source.
func NewSQLiteHistory(dbPath string, loc *time.Location) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteHistory{db: db, loc: loc}, nil
}

// Close closes the database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity.
func (s *SQLiteHistory) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load reads one dataset table. A missing table or failing query degrades
// to an empty result with a logged warning.
func (s *SQLiteHistory) Load(ctx context.Context, dataset string) ([]history.Record, error) {
	schema, ok := history.SchemaFor(dataset)
	if !ok {
		log.Printf("Warning: unknown dataset %q requested", dataset)
		return nil, nil
	}

	// Dataset names come from the schema table, never from request input,
	// so interpolating the table name is safe here.
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+dataset)
	if err != nil {
		log.Printf("Warning: dataset %s unavailable: %v", dataset, err)
		return nil, nil
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		log.Printf("Warning: failed to read %s columns: %v", dataset, err)
		return nil, nil
	}
	// Same normalization as the CSV header map, so a table created with
	// "Date" degrades identically to a CSV with that header
	idx := make(map[string]int, len(cols))
	for i, name := range cols {
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
	values := make([]any, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			log.Printf("Warning: skipping unreadable row in %s: %v", dataset, err)
			continue
		}
		get := func(column string) (string, bool) {
			i, ok := idx[column]
			if !ok {
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

// valueString renders a scanned SQL value as the raw string the schema
// layer expects, matching what the same rows would look like in a CSV.
func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return fmt.Sprintf("%d", val)
	case int16:
		return fmt.Sprintf("%d", val)
	case int32:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float32:
		return fmt.Sprintf("%g", val)
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
