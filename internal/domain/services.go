package domain

import "time"

// ============================================================
// Service catalog
// ============================================================

// ServiceDescriptor describes one backend emotion-analysis service.
// Descriptors are built at startup and never mutated afterwards; the
// registry hands out the same values for the life of the process
// (or until a whole-set reload).
type ServiceDescriptor struct {
	Name         string        `json:"name" yaml:"name"`
	BaseURL      string        `json:"baseUrl" yaml:"base_url"`
	HealthPath   string        `json:"healthPath" yaml:"health_path"`
	MetricsPath  string        `json:"metricsPath" yaml:"metrics_path"`
	AnalyzePath  string        `json:"analyzePath" yaml:"analyze_path"`
	Timeout      time.Duration `json:"-" yaml:"-"`
	TimeoutMs    int           `json:"timeoutMs" yaml:"timeout_ms"`
	AuthRequired bool          `json:"authRequired" yaml:"auth_required"`
}

// HealthURL returns the full probe URL for the service.
func (d ServiceDescriptor) HealthURL() string { return d.BaseURL + d.HealthPath }

// MetricsURL returns the full metrics-scrape URL for the service.
func (d ServiceDescriptor) MetricsURL() string { return d.BaseURL + d.MetricsPath }

// AnalyzeURL returns the full analysis URL for the service.
func (d ServiceDescriptor) AnalyzeURL() string { return d.BaseURL + d.AnalyzePath }
