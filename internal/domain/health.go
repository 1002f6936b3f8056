package domain

import "time"

// ============================================================
// Health & Metrics
// ============================================================

// HealthState classifies the outcome of one health probe.
type HealthState string

const (
	// StateHealthy: 2xx from the health path. The literal "Healthy"
	// matters, the health CLI exit-codes on this substring.
	StateHealthy   HealthState = "Healthy"
	StateUnhealthy HealthState = "Unhealthy"
	StateOffline   HealthState = "Offline"
)

// HealthReport is the outcome of one probe against one service.
// Exactly one report per registered service per CheckAll call.
type HealthReport struct {
	Name       string           `json:"name"`
	Status     HealthState      `json:"status"`
	LatencyMs  int64            `json:"latencyMs"`
	Details    string           `json:"details"`
	Metrics    *MetricsSnapshot `json:"metrics,omitempty"`
	ObservedAt time.Time        `json:"observedAt"`
}

// OverallReport is returned by GET /health.
type OverallReport struct {
	Services       []HealthReport `json:"services"`
	OverallHealthy bool           `json:"overallHealthy"`
}

// MetricsSnapshot holds whatever a best-effort metrics scrape produced.
// A nil field means the metric was absent or unparsable, which is not
// an error condition.
type MetricsSnapshot struct {
	Service     string    `json:"service"`
	MemoryMb    *float64  `json:"memoryMb,omitempty"`
	CPUPercent  *float64  `json:"cpuPercent,omitempty"`
	CollectedAt time.Time `json:"collectedAt"`
}
