package models

import "time"

// TrendResult is a bucket-aligned incident trend: one total and one
// responded count per bucket label.
type TrendResult struct {
	Labels    []string `json:"labels"`
	Total     []int    `json:"total"`
	Responded []int    `json:"responded"`
}

// SeriesResult is a bucket-aligned numeric series (sums or means).
type SeriesResult struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// CategoryCount is one distribution entry: how many alerts of a category
// exist and how many of those have been responded to.
type CategoryCount struct {
	Total     int `json:"total"`
	Responded int `json:"responded"`
}

// MetricResult is the outcome of a generic metric query. Exactly one field
// is set, depending on the metric's shape.
type MetricResult struct {
	Trend        *TrendResult             `json:"trend,omitempty"`
	Series       *SeriesResult            `json:"series,omitempty"`
	Categories   map[string]int           `json:"categories,omitempty"`
	Distribution map[string]CategoryCount `json:"distribution,omitempty"`
}

// AlertsResponse is the response for GET /api/alerts.
type AlertsResponse struct {
	Alerts      []Alert   `json:"alerts"`
	Count       int       `json:"count"`
	LastChecked time.Time `json:"lastChecked"`
}
