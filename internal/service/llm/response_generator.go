package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"polychat/internal/domain"
	domainllm "polychat/internal/domain/services/llm"
)

// Canned replies stored in place of a completion when the provider cannot answer
const (
	NotConfiguredReply = "The AI service is not configured. Please contact the administrator."
	UnavailableReply   = "Sorry, the AI service is temporarily unavailable. Please try again later."
)

// ProviderLookup returns a ready provider by name. ProviderRegistry implements it.
type ProviderLookup interface {
	GetProvider(ctx context.Context, provider string) (domainllm.LLMProvider, error)
}

// GeneratorConfig holds the completion parameters shared by every request
type GeneratorConfig struct {
	MaxTokens        int
	Temperature      float64
	Timeout          time.Duration
	TranslateReplies bool
	// SourceLanguage is the language providers tend to drift into; no
	// translation is attempted when it is also the target
	SourceLanguage string
}

// ReplyRequest is one completion: history in chronological order, newest user message last
type ReplyRequest struct {
	History  []domainllm.Message
	Model    *ModelInfo
	Language string
	Persona  string
	Context  string
}

// Reply is the text to persist as the AI message
type Reply struct {
	Text string
	// OriginalText is the untranslated completion when Text is a translation
	OriginalText *string
	Model        string
	// Fallback is true when Text is a canned reply
	Fallback bool
}

// ResponseGenerator turns a conversation window into an AI reply.
// Provider failures never surface as errors; they select a canned reply.
type ResponseGenerator struct {
	providers ProviderLookup
	prompts   domainllm.SystemPromptResolver
	config    GeneratorConfig
	logger    *slog.Logger
}

// NewResponseGenerator creates a new response generator
func NewResponseGenerator(providers ProviderLookup, prompts domainllm.SystemPromptResolver, cfg GeneratorConfig, logger *slog.Logger) *ResponseGenerator {
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = "en"
	}
	return &ResponseGenerator{
		providers: providers,
		prompts:   prompts,
		config:    cfg,
		logger:    logger,
	}
}

// Generate produces the reply for req. The only error returned is
// domain.ErrValidation for an unknown persona.
func (g *ResponseGenerator) Generate(ctx context.Context, req *ReplyRequest) (*Reply, error) {
	system, err := g.prompts.Resolve(req.Language, req.Persona, req.Context)
	if err != nil {
		return nil, err
	}

	modelID := req.Model.ID()
	provider, err := g.providers.GetProvider(ctx, req.Model.Provider)
	if err != nil {
		if errors.Is(err, domain.ErrProviderNotConfigured) {
			g.logger.Warn("provider not configured", "provider", req.Model.Provider, "model", modelID)
			return &Reply{Text: NotConfiguredReply, Model: modelID, Fallback: true}, nil
		}
		g.logger.Error("failed to create provider", "provider", req.Model.Provider, "error", err)
		return &Reply{Text: UnavailableReply, Model: modelID, Fallback: true}, nil
	}

	text, err := g.complete(ctx, provider, &domainllm.GenerateRequest{
		Messages:    req.History,
		System:      system,
		Model:       req.Model.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		g.logger.Error("completion failed",
			"provider", provider.Name(),
			"model", modelID,
			"error", err,
		)
		return &Reply{Text: UnavailableReply, Model: modelID, Fallback: true}, nil
	}

	reply := &Reply{Text: text, Model: modelID}

	if g.shouldTranslate(text, req.Language) {
		translated, err := g.translate(ctx, provider, req.Model.Model, text, req.Language)
		if err != nil {
			// Keep the untranslated reply
			g.logger.Warn("translation failed", "model", modelID, "language", req.Language, "error", err)
			return reply, nil
		}
		original := text
		reply.Text = translated
		reply.OriginalText = &original
		g.logger.Debug("reply translated", "model", modelID, "language", req.Language)
	}

	return reply, nil
}

func (g *ResponseGenerator) shouldTranslate(text, language string) bool {
	if !g.config.TranslateReplies || language == g.config.SourceLanguage {
		return false
	}
	matches, confident := MatchesLanguage(text, language)
	return confident && !matches
}

func (g *ResponseGenerator) translate(ctx context.Context, provider domainllm.LLMProvider, model, text, language string) (string, error) {
	system := fmt.Sprintf(
		"You are a professional translator. Translate the user's text into %s. Reply with the translation only.",
		g.prompts.LanguageName(language),
	)
	return g.complete(ctx, provider, &domainllm.GenerateRequest{
		Messages:    []domainllm.Message{{Role: "user", Content: text}},
		System:      system,
		Model:       model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: 0.3,
	})
}

// complete calls the provider under the configured timeout and trims the reply.
// An empty completion counts as a failure.
func (g *ResponseGenerator) complete(ctx context.Context, provider domainllm.LLMProvider, req *domainllm.GenerateRequest) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := provider.GenerateResponse(ctx, req)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrProviderUnavailable)
	}

	g.logger.Debug("completion finished",
		"provider", provider.Name(),
		"model", req.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"duration", time.Since(start),
	)

	return text, nil
}
