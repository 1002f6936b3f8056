package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/service"

	"go.uber.org/zap"
)

// loadTestHandler runs a bounded load test against one or all services.
func loadTestHandler(lt *service.LoadTester, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoadTestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
			return
		}

		if req.TestType == "" {
			req.TestType = domain.TestTypeAll
		}

		summary, err := lt.Run(r.Context(), req.TestType, req.Iterations, time.Duration(req.TimeoutMs)*time.Millisecond)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("load test finished",
			zap.String("test_type", req.TestType),
			zap.Int("total_requests", summary.TotalRequests),
			zap.Float64("success_rate", summary.SuccessRate),
		)
		writeJSON(w, http.StatusOK, summary)
	}
}
