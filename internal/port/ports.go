// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service
// layer from concrete implementations.
package port

import (
	"context"
	"encoding/json"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
)

// ProbeResult is the raw outcome of one health probe, before
// classification by the health aggregator.
type ProbeResult struct {
	StatusCode int
	Body       []byte
}

// Backend performs raw HTTP calls against one emotion service.
type Backend interface {
	// Analyze posts the payload to the service's analysis path and
	// returns the raw response body.
	Analyze(ctx context.Context, d domain.ServiceDescriptor, payload json.RawMessage) (json.RawMessage, error)

	// Probe GETs the service's health path. A transport-level failure
	// returns an error; any HTTP status is a successful probe.
	Probe(ctx context.Context, d domain.ServiceDescriptor) (*ProbeResult, error)

	// FetchMetrics GETs the service's metrics path and returns the raw
	// exposition text.
	FetchMetrics(ctx context.Context, d domain.ServiceDescriptor) (string, error)

	// Get fetches an arbitrary path on the service, bounded by the
	// descriptor's timeout. Used for proxied read-only endpoints.
	Get(ctx context.Context, d domain.ServiceDescriptor, path string) (json.RawMessage, error)
}

// Router routes one analysis envelope to its backend. Implemented by
// the dispatcher; consumed by the load-test orchestrator and handlers.
type Router interface {
	Route(ctx context.Context, env *domain.AnalysisEnvelope) (*domain.AnalysisResult, error)
}

// TokenValidator validates a raw bearer token.
type TokenValidator interface {
	Validate(raw string) (*domain.ServiceToken, error)
}

// StatsSource supplies one service's analysis history for the dashboard.
// It is an external collaborator; the aggregator tolerates its failure.
type StatsSource interface {
	Service() string
	Stats(ctx context.Context) (*domain.ServiceStats, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
