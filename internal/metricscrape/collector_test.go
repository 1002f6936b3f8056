package metricscrape_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/metricscrape"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"

	"go.uber.org/zap"
)

type mockBackend struct {
	metricsText string
	metricsErr  error
}

func (m *mockBackend) Analyze(context.Context, domain.ServiceDescriptor, json.RawMessage) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (m *mockBackend) Probe(context.Context, domain.ServiceDescriptor) (*port.ProbeResult, error) {
	return nil, errors.New("not used")
}

func (m *mockBackend) FetchMetrics(context.Context, domain.ServiceDescriptor) (string, error) {
	return m.metricsText, m.metricsErr
}

func (m *mockBackend) Get(context.Context, domain.ServiceDescriptor, string) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

// mockBackend must satisfy the full backend port.
var _ port.Backend = (*mockBackend)(nil)

func scrape(t *testing.T, backend *mockBackend) *domain.MetricsSnapshot {
	t.Helper()
	c := metricscrape.New(backend, observability.NewMetrics(), zap.NewNop())
	return c.Scrape(context.Background(), domain.ServiceDescriptor{Name: "chat"})
}

func TestScrape_ParsesKnownMetrics(t *testing.T) {
	text := `# HELP chat_memory_usage_bytes Resident memory.
# TYPE chat_memory_usage_bytes gauge
chat_memory_usage_bytes 157286400
chat_cpu_usage_percent 12.5
chat_requests_total 991
`
	snap := scrape(t, &mockBackend{metricsText: text})

	if snap.MemoryMb == nil {
		t.Fatal("expected memoryMb to be set")
	}
	if *snap.MemoryMb != 150 {
		t.Errorf("expected 150 MB, got %f", *snap.MemoryMb)
	}
	if snap.CPUPercent == nil {
		t.Fatal("expected cpuPercent to be set")
	}
	if *snap.CPUPercent != 12.5 {
		t.Errorf("expected 12.5%%, got %f", *snap.CPUPercent)
	}
}

func TestScrape_GarbageBodyYieldsEmptySnapshot(t *testing.T) {
	snap := scrape(t, &mockBackend{metricsText: "<html>definitely not prometheus</html>\x00\xff"})

	if snap.MemoryMb != nil || snap.CPUPercent != nil {
		t.Error("expected both fields absent for non-conforming text")
	}
	if snap.Service != "chat" {
		t.Errorf("expected service name on snapshot, got %q", snap.Service)
	}
}

func TestScrape_FetchErrorIsNotFatal(t *testing.T) {
	snap := scrape(t, &mockBackend{metricsErr: errors.New("connection refused")})

	if snap == nil {
		t.Fatal("expected a snapshot even when fetch fails")
	}
	if snap.MemoryMb != nil || snap.CPUPercent != nil {
		t.Error("expected both fields absent when endpoint unreachable")
	}
}

func TestScrape_SkipsCommentsAndBadLines(t *testing.T) {
	text := `# chat_memory_usage_bytes 999999999
chat_memory_usage_bytes not-a-number
chat_cpu_usage_percent 7.25
`
	snap := scrape(t, &mockBackend{metricsText: text})

	if snap.MemoryMb != nil {
		t.Error("unparsable memory line must be skipped, not guessed")
	}
	if snap.CPUPercent == nil || *snap.CPUPercent != 7.25 {
		t.Errorf("expected cpu 7.25, got %v", snap.CPUPercent)
	}
}

func TestScrape_LabeledMetricUsesFinalToken(t *testing.T) {
	text := `survey_memory_usage_bytes{pid="42"} 52428800`
	snap := scrape(t, &mockBackend{metricsText: text})

	if snap.MemoryMb == nil || *snap.MemoryMb != 50 {
		t.Errorf("expected 50 MB from labeled line, got %v", snap.MemoryMb)
	}
}

func TestScrape_PublishesGatewayGauges(t *testing.T) {
	backend := &mockBackend{metricsText: "chat_memory_usage_bytes 157286400\nchat_cpu_usage_percent 12.5\n"}
	metrics := observability.NewMetrics()
	c := metricscrape.New(backend, metrics, zap.NewNop())

	c.Scrape(context.Background(), domain.ServiceDescriptor{Name: "chat"})

	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var memory, cpu float64
	for _, f := range families {
		switch f.GetName() {
		case "gateway_backend_memory_mb":
			memory = f.GetMetric()[0].GetGauge().GetValue()
		case "gateway_backend_cpu_percent":
			cpu = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if memory != 150.0 {
		t.Errorf("memory gauge: expected 150, got %f", memory)
	}
	if cpu != 12.5 {
		t.Errorf("cpu gauge: expected 12.5, got %f", cpu)
	}
}
