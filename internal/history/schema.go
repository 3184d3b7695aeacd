package history

import "time"

// Dataset identifiers. They double as the CSV file stem and the SQL table
// name in every backend.
const (
	DatasetRoadAccidents = "road_accidents"
	DatasetFireIncidents = "fire_incidents"
)

// Schema declares the columns of one historical dataset. TimeColumn and
// TypeColumn are required: a source missing either is unusable and loads
// as empty. Everything in Optional may be absent, which means the feature
// is absent for that dataset, never an error.
type Schema struct {
	Name        string
	TimeColumn  string
	TimeLayouts []string
	TypeColumn  string
	CauseColumn string
	Optional    []string
}

// timeLayouts accepted across datasets, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var schemas = map[string]Schema{
	DatasetRoadAccidents: {
		Name:        DatasetRoadAccidents,
		TimeColumn:  "date",
		TimeLayouts: timeLayouts,
		TypeColumn:  "accident_type",
		CauseColumn: "cause",
		Optional: []string{
			"cause",
			"weather",
			"road_condition",
			"vehicle_type",
			"driver_age",
			"driver_gender",
			"injuries",
			"fatalities",
			"response_time",
			"barangay",
			"municipality",
		},
	},
	DatasetFireIncidents: {
		Name:        DatasetFireIncidents,
		TimeColumn:  "date",
		TimeLayouts: timeLayouts,
		TypeColumn:  "incident_type",
		CauseColumn: "cause",
		Optional: []string{
			"cause",
			"severity",
			"property_type",
			"fire_duration",
			"weather",
			"injuries",
			"fatalities",
			"response_time",
			"barangay",
			"municipality",
		},
	},
}

// SchemaFor looks up the schema of a dataset.
func SchemaFor(dataset string) (Schema, bool) {
	s, ok := schemas[dataset]
	return s, ok
}

// Datasets lists the known dataset identifiers.
func Datasets() []string {
	return []string{DatasetRoadAccidents, DatasetFireIncidents}
}

// RowLookup resolves one column value from a source row. ok=false means
// the column is absent from the source entirely.
type RowLookup func(column string) (string, bool)

// ParseTime parses a dataset timestamp in the reporting timezone, trying
// the schema's layouts in order.
func (s Schema) ParseTime(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range s.TimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromRow materializes a Record from one source row. ok=false drops the
// row, which happens only for a missing or unparseable timestamp.
func (s Schema) FromRow(get RowLookup, loc *time.Location) (Record, bool) {
	rawTime, ok := get(s.TimeColumn)
	if !ok {
		return Record{}, false
	}
	t, ok := s.ParseTime(rawTime, loc)
	if !ok {
		return Record{}, false
	}

	r := Record{
		Time:   t,
		Fields: make(map[string]string),
	}
	if v, ok := get(s.TypeColumn); ok {
		r.Type = v
	}
	if s.CauseColumn != "" {
		if v, ok := get(s.CauseColumn); ok {
			r.Cause = v
		}
	}
	for _, col := range s.Optional {
		v, ok := get(col)
		if !ok {
			continue
		}
		switch col {
		case "barangay":
			r.Barangay = v
		case "municipality":
			r.Municipality = v
		case s.CauseColumn:
			// already mapped
		default:
			r.Fields[col] = v
		}
	}
	return r, true
}
