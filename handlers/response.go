package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON envelope for request-shape errors. Metric
// endpoints never use it for data-availability problems; those always
// come back as well-shaped zero results.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
