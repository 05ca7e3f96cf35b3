package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/companion/logger"
)

// StopTimeout bounds how long a single component may take to stop.
const StopTimeout = 10 * time.Second

type entry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle with deterministic ordering.
// Components are started in registration order and stopped in reverse order.
type Registry struct {
	entries []*entry
	lookup  map[string]*entry
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewRegistry creates a new component registry.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		lookup: make(map[string]*entry),
		log:    log.WithComponent("registry"),
	}
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	e := &entry{component: c}
	r.entries = append(r.entries, e)
	r.lookup[name] = e
	return nil
}

// StartAll starts every component not yet started, in registration order,
// and stops at the first failure. Components already started stay started;
// call StopAll to release them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.started {
			continue
		}
		name := e.component.Name()
		if err := e.component.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.ErrorFields("start", err), logger.Fields(logger.FieldComponent, name))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		e.started = true

		fields := logger.Fields("name", name)
		if d, ok := e.component.(Describable); ok {
			fields["details"] = d.Describe()
		}
		r.log.Info("Component started", fields)
	}
	return nil
}

// StopAll stops started components in reverse registration order.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.component.Name()

		stopCtx, cancel := context.WithTimeout(ctx, StopTimeout)
		err := e.component.Stop(stopCtx)
		cancel()
		e.started = false

		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("Component stop failed", logger.ErrorFields("stop", err), logger.Fields("name", name))
			continue
		}
		r.log.Info("Component stopped", logger.Fields("name", name))
	}
	return errors.Join(errs...)
}

// HealthAll returns health status for all registered components.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		results = append(results, e.component.Health(ctx))
	}
	return results
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.lookup[name]; ok {
		return e.component
	}
	return nil
}
