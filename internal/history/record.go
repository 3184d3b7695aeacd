package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/timewindow"
	"github.com/Kumitokiru/NowAlert/models"
)

// Record is the normalized alert-like row every aggregation consumes,
// whether it came from the live buffer or a historical dataset. Attribute
// columns beyond the identity fields live in Fields as raw strings; an
// absent attribute simply has no entry.
type Record struct {
	Time         time.Time
	Type         string
	Cause        string
	Role         string
	Barangay     string
	Municipality string
	Responded    bool
	Fields       map[string]string
}

// Field returns the named attribute. The identity columns are addressable
// by their canonical names alongside the dataset-specific ones in Fields.
func (r Record) Field(name string) string {
	switch name {
	case "type":
		return r.Type
	case "cause":
		return r.Cause
	case "barangay":
		return r.Barangay
	case "municipality":
		return r.Municipality
	}
	return r.Fields[name]
}

// Float parses the named attribute as a number. Absent, blank and
// malformed values report ok=false so callers can exclude them from sums
// and mean denominators.
func (r Record) Float(name string) (float64, bool) {
	raw := strings.TrimSpace(r.Field(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FromAlert normalizes a live alert into a Record.
func FromAlert(a models.Alert) Record {
	return Record{
		Time:         a.Timestamp,
		Type:         a.EmergencyType,
		Role:         a.Role,
		Barangay:     a.Barangay,
		Municipality: a.Municipality,
		Responded:    a.Responded,
	}
}

// FromAlerts normalizes a buffer snapshot.
func FromAlerts(alerts []models.Alert) []Record {
	records := make([]Record, len(alerts))
	for i, a := range alerts {
		records[i] = FromAlert(a)
	}
	return records
}

// Select returns the records whose timestamp falls inside the window's
// [Start, End] range, narrowed to the given barangay when both the record
// and the filter carry one. End is inclusive: windows end at the query
// instant, and an alert stamped at that instant still counts toward its
// own request. A record without a barangay tag passes the locality filter
// untouched: that filter dimension is simply absent.
func Select(records []Record, w timewindow.Window, locality string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !w.Contains(r.Time) && !r.Time.Equal(w.End) {
			continue
		}
		if locality != "" && r.Barangay != "" && !strings.EqualFold(r.Barangay, locality) {
			continue
		}
		out = append(out, r)
	}
	return out
}
