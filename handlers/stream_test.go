package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/alertstore"
	"github.com/Kumitokiru/NowAlert/models"
)

// fakeFeed hands the handler a prepared event channel. Closing the
// channel ends the stream, so a pre-filled, closed channel drives the
// handler to completion synchronously.
type fakeFeed struct {
	ch           chan alertstore.Event
	unsubscribed bool
}

func (f *fakeFeed) Subscribe() chan alertstore.Event { return f.ch }

func (f *fakeFeed) Unsubscribe(ch chan alertstore.Event) { f.unsubscribed = true }

func TestStreamWritesEventFrames(t *testing.T) {
	ts := time.Date(2025, time.June, 16, 10, 0, 0, 0, manila)
	alert := models.Alert{ID: "a-1", Timestamp: ts, EmergencyType: "Fire"}
	resp := models.AlertResponse{Timestamp: ts, Barangay: "San Roque"}

	feed := &fakeFeed{ch: make(chan alertstore.Event, 2)}
	feed.ch <- alertstore.Event{Name: alertstore.EventAlertCreated, Alert: &alert}
	feed.ch <- alertstore.Event{Name: alertstore.EventAlertResponded, Response: &resp}
	close(feed.ch)

	rec := httptest.NewRecorder()
	NewStreamHandler(feed).Stream(rec, httptest.NewRequest(http.MethodGet, "/api/stream", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	if !feed.unsubscribed {
		t.Error("handler should unsubscribe when the stream ends")
	}

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2:\n%s", len(frames), body)
	}
	if !strings.HasPrefix(frames[0], "event: "+alertstore.EventAlertCreated+"\ndata: ") {
		t.Errorf("first frame = %q, want a %s event", frames[0], alertstore.EventAlertCreated)
	}
	if !strings.Contains(frames[0], `"id":"a-1"`) {
		t.Errorf("first frame should carry the alert payload: %q", frames[0])
	}
	if !strings.HasPrefix(frames[1], "event: "+alertstore.EventAlertResponded+"\ndata: ") {
		t.Errorf("second frame = %q, want a %s event", frames[1], alertstore.EventAlertResponded)
	}
	if !strings.Contains(frames[1], `"barangay":"San Roque"`) {
		t.Errorf("second frame should carry the acknowledgement payload: %q", frames[1])
	}
}

// A client disconnect ends the stream and releases the subscription.
func TestStreamStopsOnClientDisconnect(t *testing.T) {
	feed := &fakeFeed{ch: make(chan alertstore.Event, 1)}

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()

	rec := httptest.NewRecorder()
	NewStreamHandler(feed).Stream(rec, req.WithContext(ctx))

	if !feed.unsubscribed {
		t.Error("handler should unsubscribe on disconnect")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
