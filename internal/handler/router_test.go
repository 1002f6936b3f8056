package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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
	"golang.org/x/crypto/bcrypt"
)

const testAdminKey = "test-admin-key"

// newTestRouter assembles a full router over the given descriptors.
func newTestRouter(t *testing.T, descriptors []domain.ServiceDescriptor) (http.Handler, *token.Authority) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	reg := registry.New(descriptors)

	backend := client.NewBackendClient(&http.Client{Timeout: 5 * time.Second}, descriptors, resilience.RetryPolicy{}, time.Second)
	collector := metricscrape.New(backend, metrics, logger)
	dispatcher := service.NewDispatcher(reg, backend, metrics, logger)

	sources := make([]port.StatsSource, 0, len(descriptors))
	for _, d := range descriptors {
		sources = append(sources, client.NewStatsClient(backend, d))
	}

	authority := token.NewAuthority(token.NewHMACSigner("router-test-secret", "", 0), 15*time.Minute, time.Hour)
	adminHash, err := bcrypt.GenerateFromPassword([]byte(testAdminKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin key: %v", err)
	}

	router := handler.NewRouter(handler.Deps{
		Dispatcher:   dispatcher,
		LoadTester:   service.NewLoadTester(reg, dispatcher, 20, 50, metrics, logger),
		Dashboard:    service.NewDashboard(sources, metrics, cache.New[*domain.DashboardSummary](time.Minute), logger),
		Health:       health.New(reg, backend, collector, metrics, logger),
		Authority:    authority,
		Validator:    authority,
		Metrics:      metrics,
		AdminKeyHash: string(adminHash),
		Logger:       logger,
	})
	return router, authority
}

func descriptorFor(name, baseURL string, authRequired bool) domain.ServiceDescriptor {
	return domain.ServiceDescriptor{
		Name:         name,
		BaseURL:      baseURL,
		HealthPath:   "/health",
		MetricsPath:  "/metrics",
		AnalyzePath:  "/analyze",
		Timeout:      2 * time.Second,
		TimeoutMs:    2000,
		AuthRequired: authRequired,
	}
}

func bearerFor(t *testing.T, authority *token.Authority, scopes ...string) string {
	t.Helper()
	issued, err := authority.Issue("test-caller", scopes, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + issued.Signed
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_FieldNamesAndClassification(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	router, _ := newTestRouter(t, []domain.ServiceDescriptor{
		descriptorFor("chat", healthy.URL, true),
		descriptorFor("survey", broken.URL, true),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The health CLI depends on these exact field names.
	body := rec.Body.String()
	for _, field := range []string{`"name"`, `"status"`, `"latencyMs"`, `"details"`, `"overallHealthy"`} {
		if !strings.Contains(body, field) {
			t.Errorf("health body missing field %s: %s", field, body)
		}
	}
	if !strings.Contains(body, "Healthy") {
		t.Error("healthy service row must contain the literal 'Healthy'")
	}

	var report domain.OverallReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if len(report.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(report.Services))
	}
	if report.OverallHealthy {
		t.Error("expected overallHealthy=false with one broken backend")
	}
}

func TestAnalyzeChat_RequiresToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"emotion":"joy"}`))
	}))
	defer backend.Close()

	router, _ := newTestRouter(t, []domain.ServiceDescriptor{descriptorFor("chat", backend.URL, true)})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-chat", strings.NewReader(`{"text":"hello","personId":"p1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAnalyzeChat_WithScopedToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"emotion":"joy","score":0.88}`))
	}))
	defer backend.Close()

	router, authority := newTestRouter(t, []domain.ServiceDescriptor{descriptorFor("chat", backend.URL, true)})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-chat", strings.NewReader(`{"text":"great day","personId":"p1"}`))
	req.Header.Set("Authorization", bearerFor(t, authority, "chat"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Service != "chat" {
		t.Errorf("expected service chat, got %s", result.Service)
	}
	if result.Timestamp.IsZero() {
		t.Error("expected server-side timestamp on result")
	}
	if string(result.Result) != `{"emotion":"joy","score":0.88}` {
		t.Errorf("backend body must pass through, got %s", result.Result)
	}
}

func TestAnalyzeChat_WrongScopeForbidden(t *testing.T) {
	router, authority := newTestRouter(t, []domain.ServiceDescriptor{
		descriptorFor("chat", "http://localhost:1", true),
		descriptorFor("survey", "http://localhost:1", true),
	})

	// Survey-scoped token on the chat route.
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-chat", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Authorization", bearerFor(t, authority, "survey"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for out-of-scope token, got %d", rec.Code)
	}
}

func TestAnalyzeChat_EmptyTextFailsFast(t *testing.T) {
	router, authority := newTestRouter(t, []domain.ServiceDescriptor{
		// Unroutable address: a network call here would error loudly.
		descriptorFor("chat", "http://localhost:1", true),
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze-chat", strings.NewReader(`{"text":"","personId":"p1"}`))
	req.Header.Set("Authorization", bearerFor(t, authority, "chat"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty text, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoadTest_SummaryFieldNames(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	router, _ := newTestRouter(t, []domain.ServiceDescriptor{descriptorFor("chat", backend.URL, false)})

	req := httptest.NewRequest(http.MethodPost, "/v1/load-test", strings.NewReader(`{"testType":"chat","iterations":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The load-test CLI depends on these exact field names.
	body := rec.Body.String()
	for _, field := range []string{`"totalRequests"`, `"successCount"`, `"errorCount"`, `"successRate"`, `"averageTime"`, `"service"`, `"outcome"`, `"elapsedMs"`} {
		if !strings.Contains(body, field) {
			t.Errorf("load-test body missing field %s: %s", field, body)
		}
	}

	var summary domain.LoadTestSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %d", summary.TotalRequests)
	}
	if summary.SuccessRate != 100.0 {
		t.Errorf("expected 100%% success, got %f", summary.SuccessRate)
	}
}

func TestVideoAnalyticsProxy(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/analytics" {
			w.Write([]byte(`{"sessions":5,"avgMood":"calm"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	router, _ := newTestRouter(t, []domain.ServiceDescriptor{descriptorFor("video", backend.URL, false)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/api/video/analytics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"sessions":5`) {
		t.Errorf("expected proxied analytics body, got %s", rec.Body.String())
	}
}

func TestDashboardStats_StaleSourcesTolerated(t *testing.T) {
	// Backend with no /stats endpoint: every section comes back stale.
	router, _ := newTestRouter(t, []domain.ServiceDescriptor{
		descriptorFor("chat", "http://localhost:1", false),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard-stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even with all sources down, got %d", rec.Code)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Services) != 1 || !summary.Services[0].Stale {
		t.Errorf("expected one stale section, got %+v", summary.Services)
	}
}

func TestIssueToken(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	t.Run("wrong admin key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"subject":"svc","scopes":["chat"]}`))
		req.Header.Set("X-Admin-Key", "nope")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid issuance", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"subject":"survey-svc","scopes":["survey"],"ttlSeconds":300}`))
		req.Header.Set("X-Admin-Key", testAdminKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp domain.TokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode token response: %v", err)
		}
		if resp.Token == "" || resp.TokenType != "Bearer" {
			t.Errorf("expected bearer token in response, got %+v", resp)
		}
	})
}
