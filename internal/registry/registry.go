// Package registry holds the static catalog of backend emotion services.
// The set is immutable during request processing; a reload swaps the
// whole snapshot atomically so in-flight fan-outs keep a consistent view.
package registry

import (
	"sync/atomic"

	"github.com/ambi1303/Multi-Model-sub001/internal/domain"
)

type snapshot struct {
	ordered []domain.ServiceDescriptor
	byName  map[string]domain.ServiceDescriptor
}

// Registry resolves service descriptors by name and lists them in
// registration order. Safe for unsynchronized concurrent reads.
type Registry struct {
	current atomic.Pointer[snapshot]
}

// New builds a registry from the given descriptors. Registration order
// is preserved; it determines fan-out result ordering everywhere.
func New(descriptors []domain.ServiceDescriptor) *Registry {
	r := &Registry{}
	r.Reload(descriptors)
	return r
}

// Resolve returns the descriptor for name, or ErrNotFound.
func (r *Registry) Resolve(name string) (domain.ServiceDescriptor, error) {
	s := r.current.Load()
	d, ok := s.byName[name]
	if !ok {
		return domain.ServiceDescriptor{}, &domain.ErrNotFound{Resource: "service", Name: name}
	}
	return d, nil
}

// All returns every descriptor in registration order. The returned slice
// is the snapshot's own; callers must not mutate it.
func (r *Registry) All() []domain.ServiceDescriptor {
	return r.current.Load().ordered
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	return len(r.current.Load().ordered)
}

// Reload replaces the whole service set atomically.
func (r *Registry) Reload(descriptors []domain.ServiceDescriptor) {
	s := &snapshot{
		ordered: make([]domain.ServiceDescriptor, len(descriptors)),
		byName:  make(map[string]domain.ServiceDescriptor, len(descriptors)),
	}
	copy(s.ordered, descriptors)
	for _, d := range s.ordered {
		s.byName[d.Name] = d
	}
	r.current.Store(s)
}
