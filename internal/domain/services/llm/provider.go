package llm

import "context"

// LLMProvider defines the interface that all LLM providers must implement.
// Adapters wrap the vendor SDKs so the response generator sees one contract.
type LLMProvider interface {
	// GenerateResponse runs a single, non-streaming completion.
	// Transport failures and non-2xx replies are returned as errors.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Messages is the conversation in chronological order
	Messages []Message

	// System is the system prompt; empty means none
	System string

	// Model is the provider-local model id (e.g., "gpt-4o-mini")
	Model string

	MaxTokens   int
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	// Role is either "user" or "assistant"
	Role    string
	Content string
}

// GenerateResponse contains the LLM provider's response.
type GenerateResponse struct {
	Text string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int
	StopReason   string
}
