package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kumitokiru/NowAlert/models"
)

// AlertStore defines the live alert buffer operations the HTTP layer needs
type AlertStore interface {
	Submit(payload *models.Alert) (models.Alert, error)
	Acknowledge(resp models.AlertResponse) bool
	Stats() models.AlertStats
	Latest() (models.Alert, bool)
	Snapshot() []models.Alert
}

// AlertHandler handles alert submission and acknowledgement requests
type AlertHandler struct {
	store AlertStore
}

// NewAlertHandler creates a new handler over the given store
func NewAlertHandler(store AlertStore) *AlertHandler {
	return &AlertHandler{store: store}
}

// SubmitAlert handles POST /api/alerts
func (h *AlertHandler) SubmitAlert(w http.ResponseWriter, r *http.Request) {
	var payload models.Alert
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Missing alert data")
		return
	}

	alert, err := h.store.Submit(&payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

// RespondAlert handles POST /api/alerts/respond
// The timestamp identifies the alert; the rest of the payload is relayed
// to subscribed dashboards as-is.
func (h *AlertHandler) RespondAlert(w http.ResponseWriter, r *http.Request) {
	var resp models.AlertResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, "Missing response data")
		return
	}
	if resp.Timestamp.IsZero() {
		writeError(w, http.StatusBadRequest, "Missing alert timestamp")
		return
	}

	matched := h.store.Acknowledge(resp)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"matched": matched,
	})
}

// GetAlerts handles GET /api/alerts, newest first
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	// Reverse into newest-first display order
	alerts := make([]models.Alert, len(snapshot))
	for i, a := range snapshot {
		alerts[len(snapshot)-1-i] = a
	}

	writeJSON(w, http.StatusOK, models.AlertsResponse{
		Alerts:      alerts,
		Count:       len(alerts),
		LastChecked: time.Now().UTC(),
	})
}

// GetStats handles GET /api/alerts/stats
func (h *AlertHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

// GetLatest handles GET /api/alerts/latest
func (h *AlertHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	alert, ok := h.store.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "No alerts yet")
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
