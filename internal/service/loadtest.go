package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/resilience"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
	"github.com/ambi1303/Multi-Model-sub001/internal/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Representative payloads sent during a load test, keyed by service
// name. Unknown services get the generic sample.
var loadTestPayloads = map[string]json.RawMessage{
	"chat":   json.RawMessage(`{"text":"I had a productive and calm day at work","personId":"load-test"}`),
	"survey": json.RawMessage(`{"employee":{"name":"Load Test"},"survey":{"score":4},"employeeId":"load-test"}`),
	"video":  json.RawMessage(`{"frameRef":"load-test","personId":"load-test"}`),
	"speech": json.RawMessage(`{"audioRef":"load-test","personId":"load-test"}`),
}

var genericPayload = json.RawMessage(`{"sample":true,"personId":"load-test"}`)

// LoadTester runs bounded concurrent load tests through the dispatcher.
type LoadTester struct {
	registry *registry.Registry
	router   port.Router
	cap      int
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewLoadTester creates a load tester. iterationCap bounds how many
// iterations one run may request; maxConcurrency bounds in-flight calls.
func NewLoadTester(reg *registry.Registry, router port.Router, iterationCap, maxConcurrency int, metrics *observability.Metrics, logger *zap.Logger) *LoadTester {
	return &LoadTester{
		registry: reg,
		router:   router,
		cap:      iterationCap,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		metrics:  metrics,
		logger:   logger,
	}
}

// Run executes iterations calls against the named service, or against
// every registered service when testType is "all". Services run
// concurrently; iterations within one service run in order. Iterations
// are clamped to the cap once, before any task is created. A positive
// timeout tightens the per-call bound below each descriptor's own.
func (l *LoadTester) Run(ctx context.Context, testType string, iterations int, timeout time.Duration) (*domain.LoadTestSummary, error) {
	if iterations < 1 {
		iterations = 1
	}
	if iterations > l.cap {
		l.logger.Info("load test iterations clamped",
			zap.Int("requested", iterations),
			zap.Int("cap", l.cap),
		)
		iterations = l.cap
	}

	var targets []domain.ServiceDescriptor
	if testType == domain.TestTypeAll {
		targets = l.registry.All()
	} else {
		d, err := l.registry.Resolve(testType)
		if err != nil {
			return nil, err
		}
		targets = []domain.ServiceDescriptor{d}
	}

	perService := make([][]domain.LoadTestRecord, len(targets))

	var wg sync.WaitGroup
	for i, d := range targets {
		wg.Add(1)
		go func(slot int, d domain.ServiceDescriptor) {
			defer wg.Done()
			perService[slot] = l.runService(ctx, d, iterations, timeout)
		}(i, d)
	}
	wg.Wait()

	l.metrics.IncrLoadTestRun()
	return summarize(testType, targets, perService), nil
}

// runService issues the iterations for one service sequentially.
func (l *LoadTester) runService(ctx context.Context, d domain.ServiceDescriptor, iterations int, timeout time.Duration) []domain.LoadTestRecord {
	payload, ok := loadTestPayloads[d.Name]
	if !ok {
		payload = genericPayload
	}

	records := make([]domain.LoadTestRecord, 0, iterations)
	for i := 0; i < iterations; i++ {
		if err := l.bulkhead.Acquire(ctx); err != nil {
			records = append(records, domain.LoadTestRecord{
				Service:     d.Name,
				Outcome:     domain.OutcomeError,
				ErrorDetail: err.Error(),
			})
			continue
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}

		start := time.Now()
		_, err := l.router.Route(callCtx, &domain.AnalysisEnvelope{
			RequestID:     uuid.NewString(),
			TargetService: d.Name,
			Payload:       payload,
		})
		elapsed := time.Since(start).Milliseconds()
		if cancel != nil {
			cancel()
		}
		l.bulkhead.Release()

		rec := domain.LoadTestRecord{Service: d.Name, ElapsedMs: elapsed}
		if err != nil {
			rec.Outcome = domain.OutcomeError
			rec.ErrorDetail = err.Error()
		} else {
			rec.Outcome = domain.OutcomeSuccess
		}
		records = append(records, rec)
	}
	return records
}

// summarize folds per-service records into the summary shape the
// load-test CLI consumes. Divisions are guarded: a service with zero
// successes reports avgSuccessTimeMs 0, never a fault.
func summarize(testType string, targets []domain.ServiceDescriptor, perService [][]domain.LoadTestRecord) *domain.LoadTestSummary {
	summary := &domain.LoadTestSummary{TestType: testType}

	var totalElapsed int64
	for i, d := range targets {
		records := perService[i]
		stats := domain.ServiceLoadStats{Service: d.Name, Count: len(records)}

		var successElapsed int64
		for _, r := range records {
			if r.Outcome == domain.OutcomeSuccess {
				stats.SuccessCount++
				successElapsed += r.ElapsedMs
			} else {
				stats.ErrorCount++
			}
			totalElapsed += r.ElapsedMs
		}

		if stats.Count > 0 {
			stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.Count) * 100
		}
		if stats.SuccessCount > 0 {
			stats.AvgSuccessTimeMs = float64(successElapsed) / float64(stats.SuccessCount)
		}

		summary.Services = append(summary.Services, stats)
		summary.Records = append(summary.Records, records...)
		summary.TotalRequests += stats.Count
		summary.SuccessCount += stats.SuccessCount
		summary.ErrorCount += stats.ErrorCount
	}

	if summary.TotalRequests > 0 {
		summary.SuccessRate = float64(summary.SuccessCount) / float64(summary.TotalRequests) * 100
		summary.AverageTime = float64(totalElapsed) / float64(summary.TotalRequests)
	}
	return summary
}
