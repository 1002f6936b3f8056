package handler

import (
	"net/http"

	"github.com/ambi1303/Multi-Model-sub001/internal/health"
	"github.com/ambi1303/Multi-Model-sub001/internal/service"

	"go.uber.org/zap"
)

// healthHandler fans the probe out to every registered service.
// The endpoint itself answers 200 whenever the gateway is up; the
// per-service state lives in the body, where the health CLI reads it.
func healthHandler(agg *health.Aggregator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := agg.CheckAll(r.Context())
		writeJSON(w, http.StatusOK, report)
	}
}

// readyzHandler answers readiness probes for the gateway process.
func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// dashboardStatsHandler serves the combined dashboard summary.
func dashboardStatsHandler(dash *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dash.Summarize(r.Context()))
	}
}
