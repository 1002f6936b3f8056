package observability

import (
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	backendErrors     *prometheus.CounterVec
	probesTotal       *prometheus.CounterVec
	requestsTotal     *prometheus.CounterVec
	loadTestRuns      prometheus.Counter
	backendMemoryMb   *prometheus.GaugeVec
	backendCPUPercent *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// gateway metrics in it, plus the standard Go runtime and process
// collectors so /metrics covers the gateway's own process. Using a
// private registry avoids "duplicate collector" panics when NewMetrics
// is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Duration of gateway operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_backend_errors_total",
				Help: "Total errors from backend emotion services.",
			},
			[]string{"service"},
		),
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_health_probes_total",
				Help: "Health probes by service and resulting status.",
			},
			[]string{"service", "status"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Total analysis requests processed.",
			},
			[]string{"status"},
		),
		loadTestRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_load_test_runs_total",
				Help: "Completed load-test runs.",
			},
		),
		backendMemoryMb: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gateway_backend_memory_mb",
				Help: "Last scraped resident memory of a backend service, in MB.",
			},
			[]string{"service"},
		),
		backendCPUPercent: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gateway_backend_cpu_percent",
				Help: "Last scraped CPU usage of a backend service, in percent.",
			},
			[]string{"service"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendError increments the backend error counter.
func (m *Metrics) IncrBackendError(service string) {
	m.backendErrors.WithLabelValues(service).Inc()
}

// IncrProbe records one health probe outcome.
func (m *Metrics) IncrProbe(service string, status domain.HealthState) {
	m.probesTotal.WithLabelValues(service, string(status)).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrLoadTestRun counts one finished load-test run.
func (m *Metrics) IncrLoadTestRun() {
	m.loadTestRuns.Inc()
}

// RecordBackendResources publishes a scraped backend resource snapshot
// on /metrics. An absent field keeps the gauge's previous value.
func (m *Metrics) RecordBackendResources(snap *domain.MetricsSnapshot) {
	if snap == nil {
		return
	}
	if snap.MemoryMb != nil {
		m.backendMemoryMb.WithLabelValues(snap.Service).Set(*snap.MemoryMb)
	}
	if snap.CPUPercent != nil {
		m.backendCPUPercent.WithLabelValues(snap.Service).Set(*snap.CPUPercent)
	}
}

// GatewaySnapshot reads back the request counters for the dashboard's
// gateway section. Prometheus counters are cumulative.
func (m *Metrics) GatewaySnapshot() domain.GatewayStats {
	success := getCounterValue(m.requestsTotal, "success")
	errored := getCounterValue(m.requestsTotal, "error")

	return domain.GatewayStats{
		RequestsTotal: success + errored,
		ErrorsTotal:   errored,
		LoadTestRuns:  getPlainCounterValue(m.loadTestRuns),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec
// for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getPlainCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
