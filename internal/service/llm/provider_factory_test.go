package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/capabilities"
	"polychat/internal/config"
	"polychat/internal/domain"
)

func TestProviderFactory_MissingKeys(t *testing.T) {
	factory := NewProviderFactory(&config.Config{})

	for _, name := range []string{"openai", "gemini", "anthropic", "openrouter"} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, factory.Configured(name))
			_, err := factory.GetProvider(context.Background(), name)
			assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
		})
	}
}

func TestProviderFactory_Lorem(t *testing.T) {
	factory := NewProviderFactory(&config.Config{})

	assert.True(t, factory.Configured("lorem"))
	provider, err := factory.GetProvider(context.Background(), "lorem")
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestProviderFactory_Unsupported(t *testing.T) {
	factory := NewProviderFactory(&config.Config{})

	_, err := factory.GetProvider(context.Background(), "bedrock")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestModelValidator(t *testing.T) {
	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)
	validator := NewModelValidator(registry)

	tests := []struct {
		model        string
		wantProvider string
		wantErr      bool
	}{
		{model: "gpt-4o-mini", wantProvider: "openai"},
		{model: "gemini-2.0-flash", wantProvider: "gemini"},
		{model: "openrouter/mistralai/mistral-7b-instruct:free", wantProvider: "openrouter"},
		{model: "lorem-fast", wantProvider: "lorem"},
		{model: "claude-3-5-haiku-latest", wantProvider: "anthropic"},
		{model: "gpt-5-ultra", wantErr: true},
		{model: "mistralai/mistral-7b-instruct:free", wantErr: true},
		{model: "claude-3-opus", wantErr: true},
		{model: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			info, err := validator.Validate(tt.model)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, info.Provider)
		})
	}
}
