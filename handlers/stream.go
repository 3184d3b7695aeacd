package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Kumitokiru/NowAlert/internal/alertstore"
)

// AlertFeed is the store-side subscription surface for live event delivery
type AlertFeed interface {
	Subscribe() chan alertstore.Event
	Unsubscribe(ch chan alertstore.Event)
}

// StreamHandler pushes store events to dashboards over server-sent events
type StreamHandler struct {
	feed AlertFeed
}

// NewStreamHandler creates a new handler over the given feed
func NewStreamHandler(feed AlertFeed) *StreamHandler {
	return &StreamHandler{feed: feed}
}

// Stream handles GET /api/stream. Each store event becomes one SSE
// message named after the event (new_alert / alert_responded) with the
// alert or acknowledgement as its JSON payload.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.feed.Subscribe()
	defer h.feed.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			var payload any
			if ev.Alert != nil {
				payload = ev.Alert
			} else {
				payload = ev.Response
			}
			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}
