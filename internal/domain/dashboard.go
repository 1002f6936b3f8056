package domain

import (
	"encoding/json"
	"time"
)

// ============================================================
// Dashboard
// ============================================================

// ServiceStats is one collaborator's contribution to the dashboard:
// analysis counts and the most recent items from its history store.
type ServiceStats struct {
	Service     string            `json:"service"`
	Total       int64             `json:"total"`
	Today       int64             `json:"today"`
	RecentItems []json.RawMessage `json:"recentItems,omitempty"`
	Stale       bool              `json:"stale"`
}

// GatewayStats summarizes the gateway's own request counters.
type GatewayStats struct {
	RequestsTotal float64 `json:"requestsTotal"`
	ErrorsTotal   float64 `json:"errorsTotal"`
	LoadTestRuns  float64 `json:"loadTestRuns"`
}

// DashboardSummary is returned by GET /v1/dashboard-stats.
// A stale section means its source was unavailable when summarized;
// the summary itself never fails because of one source.
type DashboardSummary struct {
	Services    []ServiceStats `json:"services"`
	Gateway     GatewayStats   `json:"gateway"`
	GeneratedAt time.Time      `json:"generatedAt"`
}
