package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	domainllm "polychat/internal/domain/services/llm"
)

// EinoAdapter wraps an eino chat model (OpenAI, Gemini) and implements the
// backend's LLMProvider interface. The model id is passed per request.
type EinoAdapter struct {
	name      string
	chatModel model.BaseChatModel
}

// OpenAIConfig configures the OpenAI-compatible chat model.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty means api.openai.com
	Model   string // default model when a request carries none
	Timeout time.Duration
}

// NewOpenAIAdapter creates an adapter backed by eino's OpenAI chat model.
func NewOpenAIAdapter(ctx context.Context, cfg OpenAIConfig) (*EinoAdapter, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI chat model: %w", err)
	}

	return &EinoAdapter{name: "openai", chatModel: chatModel}, nil
}

// GeminiConfig configures the Gemini chat model.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// NewGeminiAdapter creates an adapter backed by eino's Gemini chat model over the genai SDK.
func NewGeminiAdapter(ctx context.Context, cfg GeminiConfig) (*EinoAdapter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini chat model: %w", err)
	}

	return &EinoAdapter{name: "gemini", chatModel: chatModel}, nil
}

// NewEinoAdapter wraps an arbitrary eino chat model.
func NewEinoAdapter(name string, chatModel model.BaseChatModel) *EinoAdapter {
	return &EinoAdapter{name: name, chatModel: chatModel}
}

// Name returns the provider name.
func (a *EinoAdapter) Name() string {
	return a.name
}

// GenerateResponse runs a single completion through the eino chat model.
func (a *EinoAdapter) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}

	msg, err := a.chatModel.Generate(ctx, convertToEinoMessages(req), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", a.name, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%s generate: empty response", a.name)
	}

	return convertFromEinoMessage(msg, req.Model), nil
}
