package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "openai", "gemini", "anthropic", "openrouter", "lorem"
	Model    string // Model identifier for that provider
}

// ID returns the public model id, the form clients send and the allow-list lists.
func (m *ModelInfo) ID() string {
	if m.Provider == "openrouter" {
		return "openrouter/" + m.Model
	}
	return m.Model
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini"}
//   - "gemini-2.0-flash" → {Provider: "gemini", Model: "gemini-2.0-flash"}
//   - "claude-3-5-haiku-latest" → {Provider: "anthropic", Model: "claude-3-5-haiku-latest"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "openrouter/mistralai/mistral-7b-instruct:free" → {Provider: "openrouter", Model: "mistralai/mistral-7b-instruct:free"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		parts := strings.SplitN(modelStr, "/", 2)
		provider := strings.ToLower(parts[0])
		model := parts[1]

		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}

		return &ModelInfo{
			Provider: provider,
			Model:    model,
		}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{
		Provider: provider,
		Model:    modelStr,
	}, nil
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "gpt-"), strings.HasPrefix(modelLower, "o1-"):
		return "openai"
	case strings.HasPrefix(modelLower, "gemini-"):
		return "gemini"
	case strings.HasPrefix(modelLower, "claude-"):
		return "anthropic"
	case strings.HasPrefix(modelLower, "lorem-"):
		// Lorem mock provider (for local runs and tests)
		return "lorem"
	}

	return ""
}
