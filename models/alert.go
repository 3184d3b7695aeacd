package models

import "time"

// Alert is a live emergency alert held in the bounded in-memory buffer.
// Timestamp is assigned at submission in the reporting timezone and never
// changes afterwards; acknowledgements match on it.
type Alert struct {
	ID              string     `json:"id"`
	Timestamp       time.Time  `json:"timestamp"`
	EmergencyType   string     `json:"emergency_type"`
	Role            string     `json:"role"`
	Lat             *float64   `json:"lat,omitempty"`
	Lon             *float64   `json:"lon,omitempty"`
	Barangay        string     `json:"barangay,omitempty"`
	Municipality    string     `json:"assigned_municipality,omitempty"`
	Responded       bool       `json:"responded"`
	Image           string     `json:"image,omitempty"`
	ImageUploadTime *time.Time `json:"imageUploadTime,omitempty"`
}

// AlertResponse is an acknowledgement payload relayed to subscribers.
// Fields besides Timestamp echo whatever the responder sent.
type AlertResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Lat           *float64  `json:"lat,omitempty"`
	Lon           *float64  `json:"lon,omitempty"`
	Barangay      string    `json:"barangay,omitempty"`
	EmergencyType string    `json:"emergency_type,omitempty"`
}

// AlertStats is the live buffer snapshot for dashboard headers.
type AlertStats struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
}
