package strategy

import (
	"sort"
	"sync"

	"github.com/testingview/testingview/pkg/errors"
)

// Factory creates a fresh strategy instance. Strategies hold per-run
// indicator handles, so every run needs its own instance.
type Factory func() Strategy

// Registry manages the available strategies.
type Registry interface {
	Register(name string, factory Factory) error
	Get(name string) (Strategy, error)
	List() []string
	Remove(name string) error
}

// RegistryV1 manages the available strategies behind a mutex.
type RegistryV1 struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() Registry {
	return &RegistryV1{
		factories: make(map[string]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry with the built-in strategies
// registered.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register("sma_cross", func() Strategy { return NewSMACross(5, 20) })
	_ = r.Register("macd_cross", func() Strategy { return NewMACDCross(12, 26, 9) })

	return r
}

// Register adds a strategy factory to the registry.
func (r *RegistryV1) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists,
			"strategy %q already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Get builds a fresh instance of the named strategy.
func (r *RegistryV1) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound,
			"strategy %q not found", name)
	}

	return factory(), nil
}

// List returns the sorted names of all registered strategies.
func (r *RegistryV1) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Remove deletes a strategy from the registry.
func (r *RegistryV1) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound,
			"strategy %q not found", name)
	}

	delete(r.factories, name)

	return nil
}
