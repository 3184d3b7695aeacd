package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the AlertNow service
type Config struct {
	// HTTP
	Port        string
	CORSOrigins []string

	// Live alert buffer
	AlertBufferSize int

	// Reporting timezone for alert timestamps and window math
	ReportingTimezone string

	// Historical datasets
	HistoryBackend string // csv, sqlite or postgres
	DataDir        string
	SQLiteDatabase string
	DatabaseURL    string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		AlertBufferSize: getEnvInt("ALERT_BUFFER_SIZE", 100),

		ReportingTimezone: getEnv("REPORTING_TIMEZONE", "Asia/Manila"),

		HistoryBackend: getEnv("HISTORY_BACKEND", "csv"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		SQLiteDatabase: getEnv("SQLITE_DATABASE", "./data/history.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
	}
}

// Location resolves the reporting timezone, falling back to UTC if the
// name is unknown on this system.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportingTimezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to UTC: %v", c.ReportingTimezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
