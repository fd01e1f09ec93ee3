package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "gpt-4o-mini",
			modelStr:     "gpt-4o-mini",
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
		},
		{
			name:         "o1 family",
			modelStr:     "o1-preview",
			wantProvider: "openai",
			wantModel:    "o1-preview",
		},
		{
			name:         "gemini flash",
			modelStr:     "gemini-2.0-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:         "claude family",
			modelStr:     "claude-3-5-haiku-latest",
			wantProvider: "anthropic",
			wantModel:    "claude-3-5-haiku-latest",
		},
		{
			name:         "openrouter with vendor path",
			modelStr:     "openrouter/mistralai/mistral-7b-instruct:free",
			wantProvider: "openrouter",
			wantModel:    "mistralai/mistral-7b-instruct:free",
		},
		{
			name:         "lorem mock",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:         "prefix match is case-insensitive",
			modelStr:     "GPT-4",
			wantProvider: "openai",
			wantModel:    "GPT-4",
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown prefix",
			modelStr: "llama-3-70b",
			wantErr:  true,
		},
		{
			name:     "empty provider",
			modelStr: "/gpt-4",
			wantErr:  true,
		},
		{
			name:     "empty model",
			modelStr: "openrouter/",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, got.Provider)
			assert.Equal(t, tt.wantModel, got.Model)
		})
	}
}

func TestModelInfo_ID(t *testing.T) {
	for _, id := range []string{"gpt-4o-mini", "gemini-1.5-pro", "openrouter/openai/gpt-4o-mini", "lorem-fast"} {
		info, err := ParseModel(id)
		require.NoError(t, err)
		assert.Equal(t, id, info.ID())
	}
}
