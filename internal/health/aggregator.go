// Package health fans a probe out to every registered service and
// aggregates the outcomes. One unreachable backend never delays the
// aggregate beyond its own timeout, and never fails the whole check.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/metricscrape"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
	"github.com/ambi1303/Multi-Model-sub001/internal/registry"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("health")

// Aggregator runs concurrent health probes against the whole registry.
type Aggregator struct {
	registry  *registry.Registry
	backend   port.Backend
	collector *metricscrape.Collector
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// New creates a health aggregator.
func New(reg *registry.Registry, backend port.Backend, collector *metricscrape.Collector, metrics *observability.Metrics, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		registry:  reg,
		backend:   backend,
		collector: collector,
		metrics:   metrics,
		logger:    logger,
	}
}

// CheckAll probes every registered service concurrently and returns one
// report per service in registration order. Wall time is bounded by the
// slowest single probe, not the sum. Each goroutine writes only its own
// slot, so no synchronization beyond the join is needed.
func (a *Aggregator) CheckAll(ctx context.Context) domain.OverallReport {
	ctx, span := tracer.Start(ctx, "Aggregator.CheckAll")
	defer span.End()

	services := a.registry.All()
	reports := make([]domain.HealthReport, len(services))

	var wg sync.WaitGroup
	for i, d := range services {
		wg.Add(1)
		go func(slot int, d domain.ServiceDescriptor) {
			defer wg.Done()
			reports[slot] = a.probe(ctx, d)
		}(i, d)
	}
	wg.Wait()

	overall := true
	for _, r := range reports {
		if r.Status != domain.StateHealthy {
			overall = false
			break
		}
	}

	return domain.OverallReport{Services: reports, OverallHealthy: overall}
}

// probe runs one service's health check plus a best-effort metrics
// scrape, and classifies the outcome.
func (a *Aggregator) probe(ctx context.Context, d domain.ServiceDescriptor) domain.HealthReport {
	report := domain.HealthReport{Name: d.Name, ObservedAt: time.Now()}

	start := time.Now()
	res, err := a.backend.Probe(ctx, d)
	report.LatencyMs = time.Since(start).Milliseconds()

	switch {
	case err != nil:
		// Connection refused, DNS failure, timeout: the service is off
		// the network as far as the gateway can tell.
		report.Status = domain.StateOffline
		report.Details = err.Error()
		a.logger.Warn("health probe failed",
			zap.String("service", d.Name),
			zap.Error(err),
		)
	case res.StatusCode < 200 || res.StatusCode > 299:
		report.Status = domain.StateUnhealthy
		report.Details = fmt.Sprintf("status %d", res.StatusCode)
	default:
		report.Status = domain.StateHealthy
		report.Details = probeDetails(res.Body)
		report.Metrics = a.collector.Scrape(ctx, d)
	}

	a.metrics.IncrProbe(d.Name, report.Status)
	return report
}

// probeDetails pulls a human-readable detail out of a 2xx probe body.
// A body that does not parse still leaves the service Healthy.
func probeDetails(body []byte) string {
	var decoded struct {
		Status string `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Detail != "" {
			return decoded.Detail
		}
		if decoded.Status != "" {
			return decoded.Status
		}
	}
	return "no details"
}
