package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/config"
	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/handler"
	"github.com/ambi1303/Multi-Model-sub001/internal/health"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/cache"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/client"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/resilience"
	"github.com/ambi1303/Multi-Model-sub001/internal/metricscrape"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
	"github.com/ambi1303/Multi-Model-sub001/internal/registry"
	"github.com/ambi1303/Multi-Model-sub001/internal/service"
	"github.com/ambi1303/Multi-Model-sub001/internal/token"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("service_timeout", cfg.ServiceTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("load_test_cap", cfg.LoadTestCap),
		zap.Duration("token_default_ttl", cfg.TokenDefaultTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "emotion-gateway")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Service registry ---
	descriptors, err := cfg.Services()
	if err != nil {
		logger.Fatal("failed to load service catalog", zap.Error(err))
	}
	reg := registry.New(descriptors)
	for _, d := range descriptors {
		logger.Info("registered backend service",
			zap.String("name", d.Name),
			zap.String("base_url", d.BaseURL),
			zap.Duration("timeout", d.Timeout),
			zap.Bool("auth_required", d.AuthRequired),
		)
	}

	// --- Backend client ---
	httpClient := &http.Client{Timeout: 2 * cfg.ServiceTimeout}
	retry := resilience.RetryPolicy{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	backend := client.NewBackendClient(httpClient, descriptors, retry, cfg.ScrapeTimeout)

	// --- Token authority ---
	signer := token.NewHMACSigner(cfg.TokenSecret, cfg.TokenPrevSecret, cfg.TokenGrace)
	authority := token.NewAuthority(signer, cfg.TokenDefaultTTL, cfg.TokenMaxTTL)
	if cfg.AdminKeyHash == "" {
		logger.Warn("token issuance disabled: ADMIN_KEY_HASH not configured")
	}

	// --- Services ---
	collector := metricscrape.New(backend, metrics, logger)
	healthAgg := health.New(reg, backend, collector, metrics, logger)
	dispatcher := service.NewDispatcher(reg, backend, metrics, logger)
	loadTester := service.NewLoadTester(reg, dispatcher, cfg.LoadTestCap, cfg.MaxConcurrency, metrics, logger)

	statsSources := make([]port.StatsSource, 0, len(descriptors))
	for _, d := range descriptors {
		statsSources = append(statsSources, client.NewStatsClient(backend, d))
	}
	summaryCache := cache.New[*domain.DashboardSummary](cfg.CacheTTL)
	dashboard := service.NewDashboard(statsSources, metrics, summaryCache, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Dispatcher:   dispatcher,
		LoadTester:   loadTester,
		Dashboard:    dashboard,
		Health:       healthAgg,
		Authority:    authority,
		Validator:    authority,
		Metrics:      metrics,
		AdminKeyHash: cfg.AdminKeyHash,
		Logger:       logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("gateway starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("gateway shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("gateway stopped")
}
