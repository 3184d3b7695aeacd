package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Kumitokiru/NowAlert/internal/analytics"
	"github.com/Kumitokiru/NowAlert/models"
)

// MetricsEngine defines the analytics queries the HTTP layer needs
type MetricsEngine interface {
	Trends(role, filter string) models.TrendResult
	Distribution(role string) map[string]models.CategoryCount
	Causes(ctx context.Context, role, filter, locality string) map[string]int
	Metric(ctx context.Context, role, name, filter, locality string) (models.MetricResult, error)
}

// AnalyticsHandler handles HTTP requests for dashboard metrics
type AnalyticsHandler struct {
	engine MetricsEngine
}

// NewAnalyticsHandler creates a new handler over the given engine
func NewAnalyticsHandler(engine MetricsEngine) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine}
}

func requestRole(w http.ResponseWriter, r *http.Request) (string, bool) {
	role := chi.URLParam(r, "role")
	if !analytics.KnownRole(role) {
		writeError(w, http.StatusBadRequest, "Unknown responder role")
		return "", false
	}
	return role, true
}

// GetTrends handles GET /api/analytics/{role}/trends
// Query params: filter (optional, default "weekly")
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	role, ok := requestRole(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Trends(role, r.URL.Query().Get("filter")))
}

// GetDistribution handles GET /api/analytics/{role}/distribution
func (h *AnalyticsHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	role, ok := requestRole(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Distribution(role))
}

// GetCauses handles GET /api/analytics/{role}/causes
// Query params: filter (optional), barangay (optional locality narrowing)
func (h *AnalyticsHandler) GetCauses(w http.ResponseWriter, r *http.Request) {
	role, ok := requestRole(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.engine.Causes(ctx, role, q.Get("filter"), q.Get("barangay")))
}

// GetMetric handles GET /api/analytics/{role}/{metric}
// Query params: filter (optional), barangay (optional locality narrowing)
func (h *AnalyticsHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	result, err := h.engine.Metric(ctx,
		chi.URLParam(r, "role"),
		chi.URLParam(r, "metric"),
		q.Get("filter"),
		q.Get("barangay"),
	)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownRole) || errors.Is(err, analytics.ErrUnknownMetric) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to compute metric")
		return
	}

	// Flatten the union to the shape the metric declared
	switch {
	case result.Trend != nil:
		writeJSON(w, http.StatusOK, result.Trend)
	case result.Series != nil:
		writeJSON(w, http.StatusOK, result.Series)
	case result.Distribution != nil:
		writeJSON(w, http.StatusOK, result.Distribution)
	default:
		writeJSON(w, http.StatusOK, result.Categories)
	}
}
