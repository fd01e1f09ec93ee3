package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_LoadsAllProviders(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"anthropic", "gemini", "lorem", "openai", "openrouter"}, r.GetAllProviders())
}

func TestRegistry_PreservesYAMLOrder(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	models, err := r.ListProviderModels("openai")
	require.NoError(t, err)

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-4", "gpt-3.5-turbo"}, ids)
}

func TestRegistry_IsAllowed(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		provider string
		model    string
		want     bool
	}{
		{"openai", "gpt-4o", true},
		{"openai", "gpt-5-ultra", false},
		{"openrouter", "mistralai/mistral-7b-instruct:free", true},
		{"gemini", "gemini-1.5-flash", true},
		{"lorem", "lorem-fast", true},
		{"anthropic", "claude-haiku-4-5", false},
	}
	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsAllowed(tt.provider, tt.model))
		})
	}
}

func TestRegistry_GetModelCapabilities(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	caps, err := r.GetModelCapabilities("gemini", "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "Gemini 2.0 Flash", caps.DisplayName)
	assert.Equal(t, 8192, caps.MaxOutput)

	_, err = r.GetModelCapabilities("nope", "x")
	assert.Error(t, err)
}
