package analytics

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Kumitokiru/NowAlert/internal/alertstore"
	"github.com/Kumitokiru/NowAlert/internal/history"
	"github.com/Kumitokiru/NowAlert/internal/timewindow"
	"github.com/Kumitokiru/NowAlert/models"
)

// Malformed-request conditions, the only errors this layer surfaces.
// Everything data-shaped fails soft into zero-valued results instead.
var (
	ErrUnknownRole   = errors.New("unknown responder role")
	ErrUnknownMetric = errors.New("unknown metric")
)

// HistorySource loads one historical dataset. Implementations fail soft:
// data-availability problems come back as an empty slice, already logged.
type HistorySource interface {
	Load(ctx context.Context, dataset string) ([]history.Record, error)
}

// Engine is the metrics facade: it composes the live alert store and the
// historical datasets into the named per-domain metrics dashboards render.
// Every query resolves its own time window, so results always reflect the
// buffer and datasets as of the request.
type Engine struct {
	store  *alertstore.Store
	source HistorySource
	loc    *time.Location
	now    func() time.Time // overridable in tests
}

// NewEngine creates a metrics facade over the live store and a history
// backend, resolving time windows in the reporting timezone loc.
func NewEngine(store *alertstore.Store, source HistorySource, loc *time.Location) *Engine {
	return &Engine{store: store, source: source, loc: loc, now: time.Now}
}

// Domain dataset assignments. Barangay reporting spans both incident
// kinds; the agency domains each own one.
func datasetsFor(role string) []string {
	switch role {
	case RoleCDRRMO, RolePNP:
		return []string{history.DatasetRoadAccidents}
	case RoleBFP:
		return []string{history.DatasetFireIncidents}
	default:
		return []string{history.DatasetRoadAccidents, history.DatasetFireIncidents}
	}
}

// Per-locality breakdowns are an agency feature; PNP and Barangay domain
// queries ignore the locality parameter.
func localityApplies(role string) bool {
	return role == RoleCDRRMO || role == RoleBFP
}

// Declared cause legends per domain, returned zero-valued when a causes
// query has no data so dashboards keep their legend.
var defaultCauses = map[string][]string{
	RoleBarangay: {"Fire", "Road Accident", "Others"},
	RoleCDRRMO:   {"Natural Disaster", "Human Error", "Equipment Failure"},
	RolePNP:      {"Speeding", "Drunk Driving", "Distracted Driving", "Weather"},
	RoleBFP:      {"Electrical", "Arson", "Cooking", "Smoking"},
}

type aggKind int

const (
	aggHistogram aggKind = iota
	aggAgeBands
	aggSum
	aggMean
)

type metricSpec struct {
	kind  aggKind
	field string
}

// Generic dataset metrics served through Metric. Trends, distribution and
// causes have dedicated shapes and are dispatched separately.
var metricSpecs = map[string]metricSpec{
	"weather":         {kind: aggHistogram, field: "weather"},
	"road_conditions": {kind: aggHistogram, field: "road_condition"},
	"vehicle_types":   {kind: aggHistogram, field: "vehicle_type"},
	"driver_gender":   {kind: aggHistogram, field: "driver_gender"},
	"driver_age":      {kind: aggAgeBands, field: "driver_age"},
	"accident_types":  {kind: aggHistogram, field: "type"},
	"property_types":  {kind: aggHistogram, field: "property_type"},
	"severity":        {kind: aggHistogram, field: "severity"},
	"injuries":        {kind: aggSum, field: "injuries"},
	"fatalities":      {kind: aggSum, field: "fatalities"},
	"response_time":   {kind: aggMean, field: "response_time"},
	"fire_duration":   {kind: aggMean, field: "fire_duration"},
}

// MetricNames lists every metric Metric accepts.
func MetricNames() []string {
	names := []string{"trends", "distribution", "causes"}
	for name := range metricSpecs {
		names = append(names, name)
	}
	return names
}

func (e *Engine) window(filter string) timewindow.Window {
	return timewindow.Resolve(filter, e.now().In(e.loc))
}

// liveDomain returns the domain-filtered live buffer records inside the
// window.
func (e *Engine) liveDomain(role string, w timewindow.Window) []history.Record {
	records := FilterDomain(history.FromAlerts(e.store.Snapshot()), role)
	return history.Select(records, w, "")
}

// loadDomain returns the domain's historical records inside the window.
// Dataset membership already scopes rows to the domain, so the role filter
// is not re-applied here; historical rows usually carry no role tag at
// all. Load failures degrade to fewer records, never to an error.
func (e *Engine) loadDomain(ctx context.Context, role string, w timewindow.Window, locality string) []history.Record {
	if !localityApplies(role) {
		locality = ""
	}
	var out []history.Record
	for _, dataset := range datasetsFor(role) {
		records, err := e.source.Load(ctx, dataset)
		if err != nil {
			log.Printf("Warning: loading dataset %s for %s metrics: %v", dataset, role, err)
			continue
		}
		out = append(out, history.Select(records, w, locality)...)
	}
	return out
}

// Trends counts the domain's live alerts per bucket, with a parallel
// responded series.
func (e *Engine) Trends(role, filter string) models.TrendResult {
	w := e.window(filter)
	records := e.liveDomain(role, w)
	return models.TrendResult{
		Labels: w.Labels(),
		Total:  CountSeries(records, w.Buckets),
		Responded: CountSeriesWhere(records, w.Buckets, func(r history.Record) bool {
			return r.Responded
		}),
	}
}

// Distribution tallies the domain's live alerts per emergency type. The
// whole buffer counts; distribution is a "current state" view, not a
// windowed one.
func (e *Engine) Distribution(role string) map[string]models.CategoryCount {
	records := FilterDomain(history.FromAlerts(e.store.Snapshot()), role)
	return Distribution(records)
}

// Causes histograms the cause column of the domain's datasets. With no
// data at all, the domain's declared cause legend comes back zero-valued.
func (e *Engine) Causes(ctx context.Context, role, filter, locality string) map[string]int {
	w := e.window(filter)
	records := e.loadDomain(ctx, role, w, locality)
	if len(records) == 0 {
		out := make(map[string]int)
		for _, cause := range defaultCauses[role] {
			out[cause] = 0
		}
		return out
	}
	return Histogram(records, "cause")
}

// Metric dispatches a named metric for a responder domain. Unrecognized
// roles and metric names are malformed requests; everything else always
// yields a well-shaped result.
func (e *Engine) Metric(ctx context.Context, role, name, filter, locality string) (models.MetricResult, error) {
	if !KnownRole(role) {
		return models.MetricResult{}, ErrUnknownRole
	}

	switch name {
	case "trends":
		t := e.Trends(role, filter)
		return models.MetricResult{Trend: &t}, nil
	case "distribution":
		return models.MetricResult{Distribution: e.Distribution(role)}, nil
	case "causes":
		return models.MetricResult{Categories: e.Causes(ctx, role, filter, locality)}, nil
	}

	spec, ok := metricSpecs[name]
	if !ok {
		return models.MetricResult{}, ErrUnknownMetric
	}

	w := e.window(filter)
	records := e.loadDomain(ctx, role, w, locality)
	switch spec.kind {
	case aggAgeBands:
		return models.MetricResult{Categories: AgeBands(records, spec.field)}, nil
	case aggSum:
		return models.MetricResult{Series: &models.SeriesResult{
			Labels: w.Labels(),
			Series: SumSeries(records, w.Buckets, spec.field),
		}}, nil
	case aggMean:
		return models.MetricResult{Series: &models.SeriesResult{
			Labels: w.Labels(),
			Series: MeanSeries(records, w.Buckets, spec.field),
		}}, nil
	default:
		return models.MetricResult{Categories: Histogram(records, spec.field)}, nil
	}
}

// Age group boundaries for the driver demographics metric.
var ageBandBounds = []struct {
	max   float64
	label string
}{
	{18, "Under 18"},
	{26, "18-25"},
	{36, "26-35"},
	{51, "36-50"},
	{66, "51-65"},
}

// AgeBands histograms a numeric age field into display bands. Records
// without a usable age land in the unknown category.
func AgeBands(records []history.Record, field string) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		age, ok := r.Float(field)
		if !ok {
			out[UnknownCategory]++
			continue
		}
		out[ageBand(age)]++
	}
	return out
}

func ageBand(age float64) string {
	for _, b := range ageBandBounds {
		if age < b.max {
			return b.label
		}
	}
	return "Over 65"
}
