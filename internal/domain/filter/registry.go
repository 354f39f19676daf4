package filter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the Config of every entity.
//
// It is filled once at startup and then frozen; afterwards it only serves
// reads and is safe for any number of concurrent readers.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*Config
	frozen  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]*Config)}
}

// Register adds cfg under entity. Registering a name twice, a nil config or
// registering after Freeze are configuration errors.
func (r *Registry) Register(entity string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("register %q: nil config", entity)
	}
	if cfg.Entity() != entity {
		return fmt.Errorf("register %q: config was built for %q", entity, cfg.Entity())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %q: registry is frozen", entity)
	}
	if _, exists := r.configs[entity]; exists {
		return fmt.Errorf("register %q: entity already registered", entity)
	}
	r.configs[entity] = cfg
	return nil
}

// MustRegister is Register for startup code; it panics on error.
func (r *Registry) MustRegister(entity string, cfg *Config) {
	if err := r.Register(entity, cfg); err != nil {
		panic(err)
	}
}

// Freeze rejects any further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the config of entity, if registered.
func (r *Registry) Lookup(entity string) (*Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[entity]
	return cfg, ok
}

// Get returns the config of entity.
// Asking for an unregistered entity is a programming error and panics.
func (r *Registry) Get(entity string) *Config {
	cfg, ok := r.Lookup(entity)
	if !ok {
		panic(fmt.Sprintf("filter config for entity %q is not registered", entity))
	}
	return cfg
}

// Entities returns the registered entity names in alphabetical order.
func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
