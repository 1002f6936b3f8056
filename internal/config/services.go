package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"

	"gopkg.in/yaml.v3"
)

// servicesFile is the on-disk shape of services.yaml.
type servicesFile struct {
	Services []domain.ServiceDescriptor `yaml:"services"`
}

// Services builds the service catalog the registry is seeded with.
// When ServicesFile is set the YAML file wins; otherwise the four
// built-in emotion services are assembled from the env-derived URLs.
func (c *Config) Services() ([]domain.ServiceDescriptor, error) {
	if c.ServicesFile != "" {
		return loadServicesFile(c.ServicesFile, c.ServiceTimeout)
	}

	defaults := []struct {
		name string
		url  string
	}{
		{"chat", c.ChatURL},
		{"survey", c.SurveyURL},
		{"video", c.VideoURL},
		{"speech", c.SpeechURL},
	}

	descriptors := make([]domain.ServiceDescriptor, 0, len(defaults))
	for _, d := range defaults {
		descriptors = append(descriptors, domain.ServiceDescriptor{
			Name:         d.name,
			BaseURL:      d.url,
			HealthPath:   "/health",
			MetricsPath:  "/metrics",
			AnalyzePath:  "/analyze",
			Timeout:      c.ServiceTimeout,
			TimeoutMs:    int(c.ServiceTimeout / time.Millisecond),
			AuthRequired: true,
		})
	}
	return descriptors, nil
}

func loadServicesFile(path string, fallbackTimeout time.Duration) ([]domain.ServiceDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read services file: %w", err)
	}

	var f servicesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse services file: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("services file %s declares no services", path)
	}

	for i := range f.Services {
		d := &f.Services[i]
		if d.Name == "" || d.BaseURL == "" {
			return nil, fmt.Errorf("services file %s: entry %d missing name or base_url", path, i)
		}
		if d.HealthPath == "" {
			d.HealthPath = "/health"
		}
		if d.MetricsPath == "" {
			d.MetricsPath = "/metrics"
		}
		if d.AnalyzePath == "" {
			d.AnalyzePath = "/analyze"
		}
		if d.TimeoutMs > 0 {
			d.Timeout = time.Duration(d.TimeoutMs) * time.Millisecond
		} else {
			d.Timeout = fallbackTimeout
			d.TimeoutMs = int(fallbackTimeout / time.Millisecond)
		}
	}
	return f.Services, nil
}
