package handler

import (
	"net/http"

	"github.com/ambi1303/Multi-Model-sub001/internal/health"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
	"github.com/ambi1303/Multi-Model-sub001/internal/service"
	"github.com/ambi1303/Multi-Model-sub001/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps carries everything the router wires together.
type Deps struct {
	Dispatcher   *service.Dispatcher
	LoadTester   *service.LoadTester
	Dashboard    *service.Dashboard
	Health       *health.Aggregator
	Authority    *token.Authority
	Validator    port.TokenValidator
	Metrics      *observability.Metrics
	AdminKeyHash string
	Logger       *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Operational endpoints stay open; analysis routes carry the service
// token middleware, with per-target enforcement in the dispatcher.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/health", healthHandler(d.Health, d.Logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- Token issuance (admin-gated) ---
	r.Post("/auth/token", issueTokenHandler(d.Authority, d.AdminKeyHash, d.Logger))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(ServiceTokenMiddleware(d.Validator, d.Logger))

		r.Post("/analyze-chat", analyzeHandler(d.Dispatcher, "chat", "text", d.Logger))
		r.Post("/analyze-survey", analyzeHandler(d.Dispatcher, "survey", "survey", d.Logger))
		r.Post("/analyze-speech", analyzeHandler(d.Dispatcher, "speech", "audioRef", d.Logger))

		r.Get("/api/video/analytics", videoAnalyticsHandler(d.Dispatcher, d.Logger))

		r.Get("/dashboard-stats", dashboardStatsHandler(d.Dashboard, d.Logger))
		r.Post("/load-test", loadTestHandler(d.LoadTester, d.Logger))
	})

	return r
}
