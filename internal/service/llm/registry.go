package llm

import (
	"context"
	"fmt"
	"sync"

	domainllm "polychat/internal/domain/services/llm"
)

// ProviderSource creates providers by name. ProviderFactory is the production source.
type ProviderSource interface {
	GetProvider(ctx context.Context, providerName string) (domainllm.LLMProvider, error)
}

// ProviderRegistry caches provider adapters so SDK clients are built once per process.
type ProviderRegistry struct {
	source ProviderSource
	cache  map[string]domainllm.LLMProvider
	mu     sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(source ProviderSource) *ProviderRegistry {
	return &ProviderRegistry{
		source: source,
		cache:  make(map[string]domainllm.LLMProvider),
	}
}

// GetProvider returns the provider adapter for the given provider name.
// Failures, including missing credentials, are not cached.
func (r *ProviderRegistry) GetProvider(ctx context.Context, provider string) (domainllm.LLMProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	adapter, err := r.source.GetProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = adapter

	return adapter, nil
}

// Validate checks if the registry is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.source == nil {
		return fmt.Errorf("provider source is not configured")
	}
	return nil
}

// Configured reports whether the source has credentials for provider.
// Sources that cannot tell are assumed configured.
func (r *ProviderRegistry) Configured(provider string) bool {
	if c, ok := r.source.(interface{ Configured(string) bool }); ok {
		return c.Configured(provider)
	}
	return true
}
