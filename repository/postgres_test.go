package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Kumitokiru/NowAlert/internal/history"
)

func setupPostgresHistory(t *testing.T) *PostgresHistory {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	src, err := NewPostgresHistory(databaseURL, manila)
	if err != nil {
		t.Fatalf("Failed to create postgres history source: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestPostgresPing(t *testing.T) {
	src := setupPostgresHistory(t)
	if err := src.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPostgresLoadRoadAccidents(t *testing.T) {
	src := setupPostgresHistory(t)

	records, err := src.Load(context.Background(), history.DatasetRoadAccidents)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) == 0 {
		t.Log("Warning: no road accident rows returned. Table may be empty or missing.")
		return
	}

	first := records[0]
	if first.Time.IsZero() {
		t.Error("record has a zero timestamp")
	}
	if first.Type == "" {
		t.Error("record has an empty type")
	}
}

func TestPostgresLoadMissingTableIsEmptyNotError(t *testing.T) {
	src := setupPostgresHistory(t)

	// An unknown dataset never reaches the database
	records, err := src.Load(context.Background(), "typhoon_tracks")
	if err != nil || len(records) != 0 {
		t.Errorf("unknown dataset: records=%d err=%v, want empty and nil", len(records), err)
	}
}
