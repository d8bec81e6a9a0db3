package tts

import (
	"fmt"
	"sync"
)

// Factory builds a provider instance. Construction is deferred until the
// provider is first resolved so binaries that never synthesize do not
// need working vendor credentials.
type Factory func() (Provider, error)

// Registry resolves configured provider names to shared instances.
// Providers are stateless HTTP clients, so one instance per name is safe
// to reuse across generations.
type Registry struct {
	mu          sync.Mutex
	defaultName string
	entries     map[string]registryEntry
	instances   map[string]Provider
}

type registryEntry struct {
	enabled bool
	build   Factory
}

func NewRegistry(defaultName string) *Registry {
	return &Registry{
		defaultName: defaultName,
		entries:     make(map[string]registryEntry),
		instances:   make(map[string]Provider),
	}
}

// Register adds a provider entry. A nil factory marks a configured name
// whose driver has no implementation; resolving it fails.
func (r *Registry) Register(name string, enabled bool, build Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = registryEntry{enabled: enabled, build: build}
}

// DefaultName returns the name used when a request names no provider.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Resolve returns the shared instance for name, constructing it on first
// use. An empty name resolves the default provider. There is no fallback
// across providers: a missing, disabled or driverless entry is a
// ConfigurationError.
func (r *Registry) Resolve(name string) (Provider, error) {
	if name == "" {
		name = r.defaultName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("tts provider %q is not configured", name)}
	}
	if !entry.enabled {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("tts provider %q is disabled", name)}
	}
	if entry.build == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("tts provider %q has no registered driver", name)}
	}

	if instance, ok := r.instances[name]; ok {
		return instance, nil
	}

	instance, err := entry.build()
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to construct tts provider %q: %v", name, err)}
	}
	r.instances[name] = instance
	return instance, nil
}
