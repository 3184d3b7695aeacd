package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is the history backend's connectivity probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	history Pinger
}

// NewHealthHandler creates a new handler probing the given backend
func NewHealthHandler(history Pinger) *HealthHandler {
	return &HealthHandler{history: history}
}

// Health handles GET /health with a history backend connectivity test
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.history.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "error",
			"history":   "unavailable",
			"timestamp": time.Now().UTC(),
			"error":     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"history":   "available",
		"timestamp": time.Now().UTC(),
	})
}

// Healthz handles GET /healthz, a plain liveness probe
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
