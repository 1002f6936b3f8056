package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
	"github.com/ambi1303/Multi-Model-sub001/internal/port"
)

// StatsClient reads one service's analysis history counts for the
// dashboard. History persistence lives in the backend services; the
// gateway only reads the rolled-up numbers.
type StatsClient struct {
	backend    port.Backend
	descriptor domain.ServiceDescriptor
}

// NewStatsClient creates a stats source for one service.
func NewStatsClient(backend port.Backend, d domain.ServiceDescriptor) *StatsClient {
	return &StatsClient{backend: backend, descriptor: d}
}

// Service returns the service name this source reports for.
func (c *StatsClient) Service() string { return c.descriptor.Name }

// Stats fetches the service's /stats endpoint. The dashboard treats any
// error here as a stale section, so errors pass through untouched.
func (c *StatsClient) Stats(ctx context.Context) (*domain.ServiceStats, error) {
	body, err := c.backend.Get(ctx, c.descriptor, "/stats")
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Total       int64             `json:"total"`
		Today       int64             `json:"today"`
		RecentItems []json.RawMessage `json:"recentItems"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode stats from %s: %w", c.descriptor.Name, err)
	}

	return &domain.ServiceStats{
		Service:     c.descriptor.Name,
		Total:       decoded.Total,
		Today:       decoded.Today,
		RecentItems: decoded.RecentItems,
	}, nil
}
