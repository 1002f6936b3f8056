package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/infra/observability"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
	"github.com/ambi1303/Multi-Model-sub001/internal/registry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// Dispatcher routes analysis envelopes to the correct backend service.
// It validates before any network call, enforces the target's auth
// requirement, and converts every failure into a typed domain error.
type Dispatcher struct {
	registry *registry.Registry
	backend  port.Backend
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher with its dependencies injected.
func NewDispatcher(reg *registry.Registry, backend port.Backend, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		backend:  backend,
		metrics:  metrics,
		logger:   logger,
	}
}

// Route performs exactly one bounded analysis call for the envelope.
// The caller is expected to have run scope checks already when the
// request came in over HTTP; RouteAuthorized wires both together.
func (s *Dispatcher) Route(ctx context.Context, env *domain.AnalysisEnvelope) (*domain.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "Dispatcher.Route")
	defer span.End()
	span.SetAttributes(attribute.String("service.target", env.TargetService))

	if err := validateEnvelope(env); err != nil {
		return nil, err
	}

	d, err := s.registry.Resolve(env.TargetService)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := s.backend.Analyze(ctx, d, env.Payload)
	elapsed := time.Since(start)
	s.metrics.RecordRequestDuration("analyze_"+d.Name, elapsed)

	if err != nil {
		s.metrics.IncrBackendError(d.Name)
		s.metrics.IncrRequest("error")
		s.logger.Error("backend call failed",
			zap.String("service", d.Name),
			zap.String("request_id", env.RequestID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrRequest("success")
	return &domain.AnalysisResult{
		RequestID: env.RequestID,
		Service:   d.Name,
		Result:    body,
		Timestamp: time.Now(),
		ElapsedMs: elapsed.Milliseconds(),
	}, nil
}

// RouteAuthorized enforces the target's auth requirement before
// dispatch: a missing token or one that lacks the target service's
// scope is rejected without any network call.
func (s *Dispatcher) RouteAuthorized(ctx context.Context, env *domain.AnalysisEnvelope, tok *domain.ServiceToken) (*domain.AnalysisResult, error) {
	if err := validateEnvelope(env); err != nil {
		return nil, err
	}

	d, err := s.registry.Resolve(env.TargetService)
	if err != nil {
		return nil, err
	}

	if d.AuthRequired {
		if tok == nil {
			return nil, &domain.ErrUnauthorized{
				Reason:  domain.TokenMalformed,
				Message: "service token required",
			}
		}
		if !tok.HasScope(d.Name) {
			return nil, &domain.ErrForbidden{Scope: d.Name}
		}
	}

	return s.Route(ctx, env)
}

// ProxyVideoAnalytics forwards the video service's analytics endpoint
// unchanged. Read-only; no auth attaches because analytics carries no
// per-person payload.
func (s *Dispatcher) ProxyVideoAnalytics(ctx context.Context) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "Dispatcher.ProxyVideoAnalytics")
	defer span.End()

	d, err := s.registry.Resolve("video")
	if err != nil {
		return nil, err
	}

	body, err := s.backend.Get(ctx, d, "/analytics")
	if err != nil {
		s.metrics.IncrBackendError(d.Name)
		return nil, err
	}
	return body, nil
}

func validateEnvelope(env *domain.AnalysisEnvelope) error {
	if env == nil {
		return &domain.ErrValidation{Field: "envelope", Message: "must not be empty"}
	}
	if env.TargetService == "" {
		return &domain.ErrValidation{Field: "targetService", Message: "must not be empty"}
	}
	if len(env.Payload) == 0 {
		return &domain.ErrValidation{Field: "payload", Message: "must not be empty"}
	}
	if !json.Valid(env.Payload) {
		return &domain.ErrValidation{Field: "payload", Message: "must be valid JSON"}
	}
	return nil
}
