package llm

import (
	"fmt"
	"log/slog"

	"polychat/internal/config"
)

// SetupProviders initializes the provider factory and registry for routing.
// Missing keys are logged, not fatal: requests for those providers get the
// canned "not configured" reply.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	factory := NewProviderFactory(cfg)
	registry := NewProviderRegistry(factory)

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	providers := []struct {
		name   string
		envVar string
		models string
	}{
		{"openai", "OPENAI_API_KEY", "gpt-*, o1-*"},
		{"gemini", "GEMINI_API_KEY", "gemini-*"},
		{"anthropic", "ANTHROPIC_API_KEY", "claude-*"},
		{"openrouter", "OPENROUTER_API_KEY", "openrouter/*"},
	}
	for _, p := range providers {
		if factory.Configured(p.name) {
			logger.Info("provider available", "name", p.name, "models", p.models)
		} else {
			logger.Warn(p.envVar+" not set - provider not available", "name", p.name)
		}
	}

	logger.Info("provider registry initialized")

	return registry, nil
}
