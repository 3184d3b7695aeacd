package history

import (
	"testing"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/timewindow"
	"github.com/Kumitokiru/NowAlert/models"
)

var manila = time.FixedZone("Asia/Manila", 8*3600)

func TestFloat(t *testing.T) {
	r := Record{Fields: map[string]string{
		"injuries":      "3",
		"response_time": " 12.5 ",
		"weather":       "Rainy",
		"blank":         "",
	}}

	if v, ok := r.Float("injuries"); !ok || v != 3 {
		t.Errorf("Float(injuries) = %v, %v", v, ok)
	}
	if v, ok := r.Float("response_time"); !ok || v != 12.5 {
		t.Errorf("Float(response_time) = %v, %v", v, ok)
	}
	if _, ok := r.Float("weather"); ok {
		t.Error("non-numeric value should not parse")
	}
	if _, ok := r.Float("blank"); ok {
		t.Error("blank value should not parse")
	}
	if _, ok := r.Float("absent"); ok {
		t.Error("absent field should not parse")
	}
}

func TestFieldCanonicalNames(t *testing.T) {
	r := Record{
		Type:         "Fire",
		Cause:        "Electrical",
		Barangay:     "San Roque",
		Municipality: "San Pablo City",
		Fields:       map[string]string{"severity": "High"},
	}

	cases := map[string]string{
		"type":         "Fire",
		"cause":        "Electrical",
		"barangay":     "San Roque",
		"municipality": "San Pablo City",
		"severity":     "High",
		"absent":       "",
	}
	for name, want := range cases {
		if got := r.Field(name); got != want {
			t.Errorf("Field(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFromAlert(t *testing.T) {
	ts := time.Date(2025, time.June, 16, 10, 0, 0, 0, manila)
	a := models.Alert{
		Timestamp:     ts,
		EmergencyType: "Fire",
		Role:          "barangay",
		Barangay:      "San Roque",
		Responded:     true,
	}

	r := FromAlert(a)
	if !r.Time.Equal(ts) || r.Type != "Fire" || r.Role != "barangay" || r.Barangay != "San Roque" || !r.Responded {
		t.Errorf("FromAlert produced %+v", r)
	}
}

func TestSelectWindow(t *testing.T) {
	now := time.Date(2025, time.June, 16, 15, 0, 0, 0, manila)
	w := timewindow.Resolve(timewindow.FilterWeekly, now)

	records := []Record{
		{Time: now.AddDate(0, 0, -10)}, // before window
		{Time: now.AddDate(0, 0, -3)},  // inside
		{Time: now.Add(-time.Hour)},    // inside
		{Time: now.Add(time.Hour)},     // after End
	}

	got := Select(records, w, "")
	if len(got) != 2 {
		t.Fatalf("Select returned %d records, want 2", len(got))
	}
}

// Windows end at the query instant, so a record stamped exactly at End
// (an alert submitted during the same request cycle) must be selected.
func TestSelectIncludesRecordAtWindowEnd(t *testing.T) {
	now := time.Date(2025, time.June, 16, 15, 0, 0, 0, manila)
	w := timewindow.Resolve(timewindow.FilterWeekly, now)

	records := []Record{{Time: now, Type: "Fire"}}
	got := Select(records, w, "")
	if len(got) != 1 {
		t.Fatalf("record at window end was excluded")
	}
	if got[0].Type != "Fire" {
		t.Errorf("selected record = %+v", got[0])
	}
}

func TestSelectLocalityRoundTrip(t *testing.T) {
	now := time.Date(2025, time.June, 16, 15, 0, 0, 0, manila)
	w := timewindow.Resolve(timewindow.FilterWeekly, now)

	tagged := Record{
		Time:     now.Add(-time.Hour),
		Type:     "Fire",
		Barangay: "San Roque",
		Fields:   map[string]string{"severity": "High"},
	}
	untagged := Record{Time: now.Add(-time.Hour), Type: "Flood"}
	records := []Record{tagged, untagged}

	// A record without a barangay passes the locality filter: that filter
	// dimension is absent for it.
	filtered := Select(records, w, "Santiago")
	if len(filtered) != 1 || filtered[0].Type != "Flood" {
		t.Fatalf("locality filter kept %d records: %+v", len(filtered), filtered)
	}

	// Clearing the filter brings the excluded record back unchanged.
	cleared := Select(records, w, "")
	if len(cleared) != 2 {
		t.Fatalf("cleared filter returned %d records, want 2", len(cleared))
	}
	got := cleared[0]
	if got.Type != tagged.Type || got.Barangay != tagged.Barangay || got.Fields["severity"] != "High" {
		t.Errorf("record changed through filtering: %+v", got)
	}

	// Matching is case-insensitive
	matched := Select(records, w, "san roque")
	if len(matched) != 2 {
		t.Errorf("case-insensitive match returned %d records, want 2", len(matched))
	}
}

func TestSchemaFromRowDropsBadTimestamps(t *testing.T) {
	schema, ok := SchemaFor(DatasetRoadAccidents)
	if !ok {
		t.Fatal("road accident schema missing")
	}

	row := map[string]string{
		"date":          "not-a-date",
		"accident_type": "Collision",
	}
	get := func(col string) (string, bool) {
		v, ok := row[col]
		return v, ok
	}
	if _, ok := schema.FromRow(get, manila); ok {
		t.Error("row with unparseable timestamp should be dropped")
	}

	row["date"] = "2025-06-16"
	r, ok := schema.FromRow(get, manila)
	if !ok {
		t.Fatal("valid row was dropped")
	}
	if r.Type != "Collision" {
		t.Errorf("Type = %q, want Collision", r.Type)
	}
	if r.Time.Year() != 2025 || r.Time.Location() != manila {
		t.Errorf("Time = %v, want 2025 in Manila", r.Time)
	}
}

func TestSchemaParseTimeLayouts(t *testing.T) {
	schema, _ := SchemaFor(DatasetFireIncidents)

	for _, raw := range []string{
		"2025-06-16",
		"2025-06-16 14:30:00",
		"2025-06-16T14:30:00+08:00",
	} {
		if _, ok := schema.ParseTime(raw, manila); !ok {
			t.Errorf("ParseTime(%q) failed", raw)
		}
	}
	if _, ok := schema.ParseTime("16/06/2025", manila); ok {
		t.Error("unsupported layout should not parse")
	}
}
