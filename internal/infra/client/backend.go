// Package client implements the HTTP adapter for the backend emotion
// services. All network I/O toward a backend goes through BackendClient.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/resilience"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("infra/client")

// BackendClient calls the emotion services over HTTP. Analysis calls run
// through a per-service circuit breaker and the configured retry policy;
// health probes and metrics scrapes bypass the breakers, since probes
// are themselves the signal that decides whether a backend is usable.
type BackendClient struct {
	httpClient    *http.Client
	breakers      map[string]*gobreaker.CircuitBreaker
	retry         resilience.RetryPolicy
	scrapeTimeout time.Duration
}

// NewBackendClient builds a client with one circuit breaker per known
// service. The breaker map is immutable after construction.
func NewBackendClient(httpClient *http.Client, services []domain.ServiceDescriptor, retry resilience.RetryPolicy, scrapeTimeout time.Duration) *BackendClient {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(services))
	for _, d := range services {
		breakers[d.Name] = resilience.NewCircuitBreaker(d.Name)
	}
	return &BackendClient{
		httpClient:    httpClient,
		breakers:      breakers,
		retry:         retry,
		scrapeTimeout: scrapeTimeout,
	}
}

// Analyze posts the payload to the service's analysis path, bounded by
// the descriptor's timeout, and returns the raw response body.
func (c *BackendClient) Analyze(ctx context.Context, d domain.ServiceDescriptor, payload json.RawMessage) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "BackendClient.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("service.name", d.Name))

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	var body json.RawMessage

	cb, ok := c.breakers[d.Name]
	if !ok {
		// Descriptor arrived via reload after client construction.
		return nil, &domain.ErrNotFound{Resource: "backend client", Name: d.Name}
	}

	_, err := cb.Execute(func() (any, error) {
		return nil, c.retry.Do(ctx, func() error {
			b, err := c.post(ctx, d, payload)
			if err != nil {
				return err
			}
			body = b
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: d.Name}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: d.Name + " analyze"}
		}
		var external *domain.ErrExternalService
		if errors.As(err, &external) {
			return nil, err
		}
		return nil, &domain.ErrExternalService{Service: d.Name, Err: err}
	}

	return body, nil
}

// Probe GETs the health path bounded by the descriptor's timeout.
// Any HTTP status is a completed probe; only transport failures error.
func (c *BackendClient) Probe(ctx context.Context, d domain.ServiceDescriptor) (*port.ProbeResult, error) {
	ctx, span := tracer.Start(ctx, "BackendClient.Probe")
	defer span.End()
	span.SetAttributes(attribute.String("service.name", d.Name))

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.HealthURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &port.ProbeResult{StatusCode: resp.StatusCode, Body: body}, nil
}

// FetchMetrics GETs the metrics path with the short scrape timeout and
// returns the raw exposition text.
func (c *BackendClient) FetchMetrics(ctx context.Context, d domain.ServiceDescriptor) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.scrapeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.MetricsURL(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metrics endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Get fetches an arbitrary read-only path on the service, bounded by
// the descriptor's timeout.
func (c *BackendClient) Get(ctx context.Context, d domain.ServiceDescriptor, path string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "BackendClient.Get")
	defer span.End()
	span.SetAttributes(attribute.String("service.name", d.Name))

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: d.Name + path}
		}
		return nil, &domain.ErrExternalService{Service: d.Name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: d.Name, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ErrExternalService{Service: d.Name, Status: resp.StatusCode}
	}
	return body, nil
}

func (c *BackendClient) post(ctx context.Context, d domain.ServiceDescriptor, payload json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.AnalyzeURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ErrExternalService{Service: d.Name, Status: resp.StatusCode}
	}
	return body, nil
}
