package adapters

import (
	"context"

	llmprovider "github.com/haowjy/meridian-llm-go"

	domainllm "polychat/internal/domain/services/llm"
)

// LibraryAdapter wraps a meridian-llm-go provider (OpenRouter, Anthropic, Lorem) and implements
// the backend's LLMProvider interface.
type LibraryAdapter struct {
	provider llmprovider.Provider
}

// NewLibraryAdapter creates an adapter from an existing library provider.
// Used by provider factory for dynamic provider creation.
func NewLibraryAdapter(provider llmprovider.Provider) *LibraryAdapter {
	return &LibraryAdapter{
		provider: provider,
	}
}

// Name returns the provider name.
func (a *LibraryAdapter) Name() string {
	return a.provider.Name().String()
}

// GenerateResponse generates a response from the wrapped provider.
func (a *LibraryAdapter) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	libResp, err := a.provider.GenerateResponse(ctx, ConvertToLibraryRequest(req))
	if err != nil {
		return nil, err
	}

	return convertFromLibraryResponse(libResp), nil
}
