// Package metricscrape collects best-effort resource metrics from the
// backend services' exposition endpoints. A scrape never fails the
// caller: anything unreachable or unparsable just leaves fields absent.
package metricscrape

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"

	"go.uber.org/zap"
)

// Metric-name substrings recognized in the exposition text.
const (
	memoryMetric = "_memory_usage_bytes"
	cpuMetric    = "_cpu_usage_percent"
)

// Collector scrapes one service's metrics endpoint. Scraped values are
// also published on the gateway's own /metrics as per-service gauges.
type Collector struct {
	backend port.Backend
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New creates a metrics collector.
func New(backend port.Backend, metrics *observability.Metrics, logger *zap.Logger) *Collector {
	return &Collector{backend: backend, metrics: metrics, logger: logger}
}

// Scrape fetches and parses the service's metrics. It always returns a
// snapshot; on any fetch error both fields stay absent.
func (c *Collector) Scrape(ctx context.Context, d domain.ServiceDescriptor) *domain.MetricsSnapshot {
	snap := &domain.MetricsSnapshot{Service: d.Name, CollectedAt: time.Now()}

	text, err := c.backend.FetchMetrics(ctx, d)
	if err != nil {
		c.logger.Debug("metrics scrape failed",
			zap.String("service", d.Name),
			zap.Error(err),
		)
		return snap
	}

	snap.MemoryMb, snap.CPUPercent = parse(text)
	c.metrics.RecordBackendResources(snap)
	return snap
}

// parse walks the exposition text line by line. Comment lines are
// skipped; a line that fails to parse is skipped, never fatal.
func parse(text string) (memoryMb, cpuPercent *float64) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.Contains(line, memoryMetric):
			if v, ok := lastField(line); ok {
				mb := v / (1024 * 1024)
				memoryMb = &mb
			}
		case strings.Contains(line, cpuMetric):
			if v, ok := lastField(line); ok {
				pct := v
				cpuPercent = &pct
			}
		}
	}
	return memoryMb, cpuPercent
}

func lastField(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
