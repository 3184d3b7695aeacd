package alertstore

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kumitokiru/NowAlert/models"
)

// DefaultCapacity is the buffer size used when none is configured.
const DefaultCapacity = 100

// ImageMaxAge is how old an uploaded image may be before the submission's
// image is discarded and its emergency type forced to the sentinel. Guards
// against stale or replayed uploads.
const ImageMaxAge = 30 * time.Minute

// TypeNotSpecified is the sentinel emergency type for submissions with no
// usable type (absent, or invalidated by a stale image).
const TypeNotSpecified = "Not Specified"

// ErrMissingData is returned when a submission carries no payload.
var ErrMissingData = errors.New("missing alert data")

// Event names published to subscribers.
const (
	EventAlertCreated   = "new_alert"
	EventAlertResponded = "alert_responded"
)

// Event is one store mutation fanned out to subscribers. Exactly one of
// Alert and Response is set, matching Name.
type Event struct {
	Name     string
	Alert    *models.Alert
	Response *models.AlertResponse
}

// Store is the bounded, insertion-ordered buffer of recent live alerts.
// It is the single source of truth for real-time stats and the only
// mutable shared state in the process. One mutex guards the buffer; it is
// held only for appends and scans, never across event delivery.
type Store struct {
	mu       sync.Mutex
	capacity int
	alerts   []models.Alert // oldest first

	loc *time.Location
	now func() time.Time // overridable in tests

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// New creates a store holding at most capacity alerts, stamping
// submissions in the reporting timezone loc.
func New(capacity int, loc *time.Location) *Store {
	return NewWithClock(capacity, loc, time.Now)
}

// NewWithClock is New with an injectable time source.
func NewWithClock(capacity int, loc *time.Location, now func() time.Time) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		alerts:   make([]models.Alert, 0, capacity),
		loc:      loc,
		now:      now,
		subs:     make(map[chan Event]struct{}),
	}
}

// Submit validates and appends a new alert, evicting the oldest entry at
// capacity, then publishes it to subscribers. The returned alert carries
// the assigned ID and timestamp.
func (s *Store) Submit(payload *models.Alert) (models.Alert, error) {
	if payload == nil {
		return models.Alert{}, ErrMissingData
	}

	now := s.now().In(s.loc)
	alert := *payload
	alert.ID = uuid.New().String()
	alert.Timestamp = now
	alert.Responded = false

	// Stale image guard: an upload older than ImageMaxAge invalidates both
	// the image and the submitted type.
	if alert.ImageUploadTime != nil && now.Sub(*alert.ImageUploadTime) > ImageMaxAge {
		log.Printf("Warning: discarding image uploaded at %v (stale)", alert.ImageUploadTime)
		alert.Image = ""
		alert.ImageUploadTime = nil
		alert.EmergencyType = TypeNotSpecified
	}
	if alert.EmergencyType == "" {
		alert.EmergencyType = TypeNotSpecified
	}

	s.mu.Lock()
	if len(s.alerts) >= s.capacity {
		// FIFO eviction, no persistence
		s.alerts = append(s.alerts[:0], s.alerts[1:]...)
	}
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()

	s.publish(Event{Name: EventAlertCreated, Alert: &alert})
	return alert, nil
}

// Acknowledge flips the responded flag on the first alert matching the
// timestamp. It is idempotent, and a timestamp with no match (the alert
// may already have been evicted) is a no-op, not an error. The
// acknowledgement event is published either way so connected dashboards
// stay in sync.
func (s *Store) Acknowledge(resp models.AlertResponse) bool {
	matched := false
	s.mu.Lock()
	for i := range s.alerts {
		if s.alerts[i].Timestamp.Equal(resp.Timestamp) {
			s.alerts[i].Responded = true
			matched = true
			break
		}
	}
	s.mu.Unlock()

	s.publish(Event{Name: EventAlertResponded, Response: &resp})
	return matched
}

// Stats returns the buffer size and the count of critical alerts.
func (s *Store) Stats() models.AlertStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.AlertStats{Total: len(s.alerts)}
	for _, a := range s.alerts {
		if strings.EqualFold(a.EmergencyType, "critical") {
			stats.Critical++
		}
	}
	return stats
}

// Latest returns the most recently inserted alert, if any.
func (s *Store) Latest() (models.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.alerts) == 0 {
		return models.Alert{}, false
	}
	return s.alerts[len(s.alerts)-1], true
}

// Snapshot returns a copy of the buffer, oldest first, for read-only
// aggregation.
func (s *Store) Snapshot() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Subscribe registers an event channel. The channel is buffered and
// events are dropped rather than blocking submission when a consumer
// falls behind.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a previously subscribed channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow consumer, drop the event
		}
	}
}
