package service

import (
	"context"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dashboardCacheKey = "dashboard-summary"

// Dashboard combines per-service analysis history into one read-only
// summary. A source being down marks its section stale; it never fails
// the whole summary.
type Dashboard struct {
	sources []port.StatsSource
	metrics *observability.Metrics
	cache   port.Cache[*domain.DashboardSummary]
	logger  *zap.Logger
}

// NewDashboard creates a dashboard aggregator over the given sources.
func NewDashboard(sources []port.StatsSource, metrics *observability.Metrics, cache port.Cache[*domain.DashboardSummary], logger *zap.Logger) *Dashboard {
	return &Dashboard{
		sources: sources,
		metrics: metrics,
		cache:   cache,
		logger:  logger,
	}
}

// Summarize fans out to every stats source concurrently and assembles
// the summary in source order. Summaries are cached briefly so frequent
// dashboard polling stays cheap.
func (d *Dashboard) Summarize(ctx context.Context) *domain.DashboardSummary {
	if cached, ok := d.cache.Get(dashboardCacheKey); ok {
		return cached
	}

	sections := make([]domain.ServiceStats, len(d.sources))

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range d.sources {
		i, src := i, src
		g.Go(func() error {
			stats, err := src.Stats(gCtx)
			if err != nil {
				d.logger.Warn("dashboard source unavailable",
					zap.String("service", src.Service()),
					zap.Error(err),
				)
				sections[i] = domain.ServiceStats{Service: src.Service(), Stale: true}
				return nil
			}
			sections[i] = *stats
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures become stale sections

	summary := &domain.DashboardSummary{
		Services:    sections,
		Gateway:     d.metrics.GatewaySnapshot(),
		GeneratedAt: time.Now(),
	}
	d.cache.Set(dashboardCacheKey, summary)
	return summary
}
