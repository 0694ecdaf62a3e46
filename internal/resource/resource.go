// Package resource defines how manifest resources become check closures for
// the ensure driver. Each resource type registers a Factory; the factory
// inspects the declared configuration once and returns a read-only check
// that carries the convergence action on its unmet branch.
package resource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/pkg/ensure"
)

// Check is the closure shape every resource factory produces.
type Check = ensure.CheckFunc[*model.ResourceResult]

// Factory builds the check for one manifest resource. The returned closure
// captures ctx and the resource configuration; it probes current state
// without mutating anything and, when the state is unmet, carries the action
// that will converge it.
type Factory func(ctx context.Context, res *config.Resource) (Check, error)

// Registry maps resource type names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for a resource type. Registering a duplicate type
// is a programming error and is rejected.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("resource type name is empty")
	}
	if factory == nil {
		return fmt.Errorf("factory for resource type %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("resource type %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Get returns the factory for a resource type.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory registered for resource type %q", name)
	}
	return factory, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
