package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"
	"github.com/haowjy/meridian-llm-go/providers/openrouter"

	"polychat/internal/config"
	"polychat/internal/domain"
	domainllm "polychat/internal/domain/services/llm"
	"polychat/internal/service/llm/adapters"
)

// ProviderFactory creates provider adapters from configured credentials
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name.
// A provider whose key is missing yields domain.ErrProviderNotConfigured.
//
// Supported providers:
//   - "openai" - OpenAI (or any compatible endpoint via OPENAI_BASE_URL), through eino
//   - "gemini" - Google Gemini, through eino and the genai SDK
//   - "anthropic" - Claude models, through meridian-llm-go
//   - "openrouter" - OpenRouter, through meridian-llm-go
//   - "lorem" - Mock provider (no API key required)
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case "openai":
		return f.createOpenAIProvider(ctx)
	case "gemini":
		return f.createGeminiProvider(ctx)
	case "anthropic":
		return f.createAnthropicProvider()
	case "openrouter":
		return f.createOpenRouterProvider()
	case "lorem":
		return adapters.NewLibraryAdapter(lorem.NewProvider()), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// Configured reports whether credentials exist for the provider.
func (f *ProviderFactory) Configured(providerName string) bool {
	switch providerName {
	case "openai":
		return f.config.OpenAIAPIKey != ""
	case "gemini":
		return f.config.GeminiAPIKey != ""
	case "anthropic":
		return f.config.AnthropicAPIKey != ""
	case "openrouter":
		return f.config.OpenRouterAPIKey != ""
	case "lorem":
		return true
	}
	return false
}

func (f *ProviderFactory) createOpenAIProvider(ctx context.Context) (domainllm.LLMProvider, error) {
	if f.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set: %w", domain.ErrProviderNotConfigured)
	}

	return adapters.NewOpenAIAdapter(ctx, adapters.OpenAIConfig{
		APIKey:  f.config.OpenAIAPIKey,
		BaseURL: f.config.OpenAIBaseURL,
		Model:   "gpt-4o-mini",
		Timeout: f.timeout(),
	})
}

func (f *ProviderFactory) createGeminiProvider(ctx context.Context) (domainllm.LLMProvider, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set: %w", domain.ErrProviderNotConfigured)
	}

	return adapters.NewGeminiAdapter(ctx, adapters.GeminiConfig{
		APIKey: f.config.GeminiAPIKey,
		Model:  "gemini-2.0-flash",
	})
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.LLMProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set: %w", domain.ErrProviderNotConfigured)
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return adapters.NewLibraryAdapter(provider), nil
}

func (f *ProviderFactory) createOpenRouterProvider() (domainllm.LLMProvider, error) {
	if f.config.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set: %w", domain.ErrProviderNotConfigured)
	}

	provider, err := openrouter.NewProvider(f.config.OpenRouterAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
	}

	return adapters.NewLibraryAdapter(provider), nil
}

func (f *ProviderFactory) timeout() time.Duration {
	if f.config.ProviderTimeout > 0 {
		return f.config.ProviderTimeout
	}
	return 60 * time.Second
}
