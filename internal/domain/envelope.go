package domain

import (
	"encoding/json"
	"time"
)

// ============================================================
// Analysis envelope
// ============================================================

// AnalysisEnvelope carries any of the chat/survey/video/speech payloads
// through the dispatcher. The gateway never interprets Payload; it only
// checks it is present and forwards it verbatim.
type AnalysisEnvelope struct {
	RequestID     string          `json:"requestId"`
	TargetService string          `json:"targetService"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp,omitempty"`
}

// AnalysisResult is what the dispatcher returns on success: the backend's
// body untouched, stamped with a server-side timestamp.
type AnalysisResult struct {
	RequestID string          `json:"requestId"`
	Service   string          `json:"service"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
	ElapsedMs int64           `json:"elapsedMs"`
}

// APIError is the structured error envelope returned for any failed
// request. Raw transport errors never escape in this shape's place.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
