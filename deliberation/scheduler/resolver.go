package scheduler

import (
	"fmt"
	"sync"

	"github.com/viant/arbiter/genai/llm/provider"
)

// AdapterResolver lazily builds and caches one provider.Adapter per
// provider id, since adapters are safe for concurrent use and expensive to
// recreate per sample.
type AdapterResolver struct {
	registry *provider.Registry
	options  func(providerID string) map[string]string

	mu    sync.Mutex
	cache map[string]provider.Adapter
}

// NewAdapterResolver builds a resolver backed by registry. options supplies
// factory options (apiKey, baseURL, model) per provider id; it may be nil,
// in which case adapters are created with no options.
func NewAdapterResolver(registry *provider.Registry, options func(providerID string) map[string]string) *AdapterResolver {
	return &AdapterResolver{registry: registry, options: options, cache: make(map[string]provider.Adapter)}
}

func (r *AdapterResolver) Resolve(providerID string) (provider.Adapter, error) {
	canonical := r.registry.Canonical(providerID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.cache[canonical]; ok {
		return a, nil
	}
	var opts map[string]string
	if r.options != nil {
		opts = r.options(providerID)
	}
	adapter, err := r.registry.Create(providerID, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve adapter %s: %w", providerID, err)
	}
	r.cache[canonical] = adapter
	return adapter, nil
}
