package domain

// ============================================================
// Load testing
// ============================================================

// TestTypeAll targets every registered service.
const TestTypeAll = "all"

// LoadTestRequest is the body of POST /v1/load-test.
// Iterations is clamped to the configured cap before any call is made.
type LoadTestRequest struct {
	TestType   string `json:"testType"`
	Iterations int    `json:"iterations"`
	TimeoutMs  int    `json:"timeoutMs,omitempty"`
}

// LoadTestRecord is one call's outcome during a load test.
type LoadTestRecord struct {
	Service     string `json:"service"`
	Outcome     string `json:"outcome"` // Success or Error
	ElapsedMs   int64  `json:"elapsedMs"`
	ErrorDetail string `json:"errorDetail,omitempty"`
}

const (
	OutcomeSuccess = "Success"
	OutcomeError   = "Error"
)

// ServiceLoadStats aggregates one service's records.
type ServiceLoadStats struct {
	Service          string  `json:"service"`
	Count            int     `json:"count"`
	SuccessCount     int     `json:"successCount"`
	ErrorCount       int     `json:"errorCount"`
	SuccessRate      float64 `json:"successRate"`
	AvgSuccessTimeMs float64 `json:"avgSuccessTimeMs"`
}

// LoadTestSummary is the full result of one load-test run.
// The top-level field names are part of the contract with the
// load-test CLI; do not rename them.
type LoadTestSummary struct {
	TestType      string             `json:"testType"`
	TotalRequests int                `json:"totalRequests"`
	SuccessCount  int                `json:"successCount"`
	ErrorCount    int                `json:"errorCount"`
	SuccessRate   float64            `json:"successRate"`
	AverageTime   float64            `json:"averageTime"`
	Services      []ServiceLoadStats `json:"services"`
	Records       []LoadTestRecord   `json:"records,omitempty"`
}
