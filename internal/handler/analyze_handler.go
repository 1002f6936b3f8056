package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAnalyzeBody = 4 << 20

// analyzeHandler builds the handler for one analysis route. The payload
// passes through to the backend untouched; requiredField is checked
// before any network call so a bad request fails fast.
func analyzeHandler(disp *service.Dispatcher, target, requiredField string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxAnalyzeBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "unreadable request body")
			return
		}

		if err := checkField(body, requiredField); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		env := &domain.AnalysisEnvelope{
			RequestID:     uuid.NewString(),
			TargetService: target,
			Payload:       body,
		}

		result, err := disp.RouteAuthorized(r.Context(), env, TokenFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// checkField verifies the body is a JSON object with a non-empty value
// under the named key.
func checkField(body []byte, field string) error {
	if len(body) == 0 {
		return &domain.ErrValidation{Field: "body", Message: "must not be empty"}
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		return &domain.ErrValidation{Field: "body", Message: "must be a JSON object"}
	}

	if field == "" {
		return nil
	}
	raw, ok := decoded[field]
	if !ok || string(raw) == `""` || string(raw) == "null" || string(raw) == "{}" {
		return &domain.ErrValidation{Field: field, Message: "must not be empty"}
	}
	return nil
}

// videoAnalyticsHandler proxies the video service's analytics endpoint.
func videoAnalyticsHandler(disp *service.Dispatcher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := disp.ProxyVideoAnalytics(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
