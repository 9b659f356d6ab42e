package collector

import (
	"context"
	"sync"

	"github.com/gosight/gosight/tracer/internal/config"
)

// Registry holds at most one started collector per process.
type Registry struct {
	mu        sync.Mutex
	collector *Collector
}

// Init creates and starts a collector. When one already exists it is
// returned unchanged and cfg is ignored.
func (r *Registry) Init(ctx context.Context, cfg *config.Config, deps Deps) (*Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collector != nil {
		r.collector.logger.Debug().Msg("Collector already initialized")
		return r.collector, nil
	}

	c, err := New(cfg, deps)
	if err != nil {
		return nil, err
	}
	c.Start(ctx)
	r.collector = c
	return c, nil
}

// Current returns the registered collector, or nil.
func (r *Registry) Current() *Collector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collector
}

// Shutdown closes the registered collector and clears the registry so a
// later Init starts fresh.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	c := r.collector
	r.collector = nil
	r.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close(ctx)
}
