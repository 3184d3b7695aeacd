package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/Kumitokiru/NowAlert/handlers"
	"github.com/Kumitokiru/NowAlert/internal/alertstore"
	"github.com/Kumitokiru/NowAlert/internal/analytics"
	"github.com/Kumitokiru/NowAlert/internal/config"
	"github.com/Kumitokiru/NowAlert/repository"
)

// historySource is what main needs from a history backend: dataset loads
// for the metrics engine plus a connectivity probe for /health.
type historySource interface {
	analytics.HistorySource
	Ping(ctx context.Context) error
}

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	loc := cfg.Location()
	log.Printf("Reporting timezone: %s", loc)

	// Historical dataset backend
	var source historySource
	switch cfg.HistoryBackend {
	case "sqlite":
		log.Printf("Connecting to SQLite history database: %s", cfg.SQLiteDatabase)
		s, err := repository.NewSQLiteHistory(cfg.SQLiteDatabase, loc)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite history: %v", err)
		}
		defer s.Close()
		source = s
	case "postgres":
		log.Println("Connecting to Postgres history database")
		s, err := repository.NewPostgresHistory(cfg.DatabaseURL, loc)
		if err != nil {
			log.Fatalf("Failed to initialize Postgres history: %v", err)
		}
		defer s.Close()
		source = s
	default:
		log.Printf("Loading history datasets from CSV files in %s", cfg.DataDir)
		source = repository.NewCSVHistory(cfg.DataDir, loc)
	}

	// Live alert store and metrics engine
	store := alertstore.New(cfg.AlertBufferSize, loc)
	engine := analytics.NewEngine(store, source, loc)

	alertHandler := handlers.NewAlertHandler(store)
	analyticsHandler := handlers.NewAnalyticsHandler(engine)
	streamHandler := handlers.NewStreamHandler(store)
	healthHandler := handlers.NewHealthHandler(source)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/healthz", healthHandler.Healthz)

	// Live alert routes
	r.Post("/api/alerts", alertHandler.SubmitAlert)
	r.Post("/api/alerts/respond", alertHandler.RespondAlert)
	r.Get("/api/alerts", alertHandler.GetAlerts)
	r.Get("/api/alerts/stats", alertHandler.GetStats)
	r.Get("/api/alerts/latest", alertHandler.GetLatest)
	r.Get("/api/stream", streamHandler.Stream)

	// Analytics routes
	r.Get("/api/analytics/{role}/trends", analyticsHandler.GetTrends)
	r.Get("/api/analytics/{role}/distribution", analyticsHandler.GetDistribution)
	r.Get("/api/analytics/{role}/causes", analyticsHandler.GetCauses)
	r.Get("/api/analytics/{role}/{metric}", analyticsHandler.GetMetric)

	log.Printf("AlertNow server starting on :%s", cfg.Port)
	log.Println("Alert endpoints:")
	log.Println("  POST /api/alerts")
	log.Println("  POST /api/alerts/respond")
	log.Println("  GET  /api/alerts")
	log.Println("  GET  /api/alerts/stats")
	log.Println("  GET  /api/alerts/latest")
	log.Println("  GET  /api/stream (SSE)")
	log.Println("Analytics endpoints:")
	log.Println("  GET  /api/analytics/{role}/trends")
	log.Println("  GET  /api/analytics/{role}/distribution")
	log.Println("  GET  /api/analytics/{role}/causes")
	log.Println("  GET  /api/analytics/{role}/{metric}")
	log.Println("Health:")
	log.Println("  GET  /health (with history backend check)")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
