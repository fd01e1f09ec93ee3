package handler

import (
	"log/slog"
	"net/http"

	"polychat/internal/capabilities"
	"polychat/internal/httputil"
	"polychat/internal/prompts"
	"polychat/internal/service/llm"
)

// ProviderStatus reports whether a provider has credentials.
// llm.ProviderRegistry satisfies it.
type ProviderStatus interface {
	Configured(provider string) bool
}

// CatalogHandler serves the read-only model, persona and language lists
type CatalogHandler struct {
	capabilities *capabilities.Registry
	prompts      *prompts.Catalog
	providers    ProviderStatus
	defaultModel string
	logger       *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	capabilityRegistry *capabilities.Registry,
	promptCatalog *prompts.Catalog,
	providers ProviderStatus,
	defaultModel string,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		capabilities: capabilityRegistry,
		prompts:      promptCatalog,
		providers:    providers,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

type modelEntry struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"contextWindow,omitempty"`
	MaxOutput     int    `json:"maxOutput,omitempty"`
}

type providerEntry struct {
	Provider   string       `json:"provider"`
	Configured bool         `json:"configured"`
	Models     []modelEntry `json:"models"`
}

// ListModels returns the model allow-list grouped by provider.
// IDs are in the form accepted by the "model" request field.
// GET /api/models
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	names := h.capabilities.GetAllProviders()
	providers := make([]providerEntry, 0, len(names))

	for _, name := range names {
		caps, err := h.capabilities.ListProviderModels(name)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		entry := providerEntry{
			Provider:   name,
			Configured: h.providers.Configured(name),
			Models:     make([]modelEntry, 0, len(caps)),
		}
		for _, c := range caps {
			info := llm.ModelInfo{Provider: name, Model: c.ID}
			entry.Models = append(entry.Models, modelEntry{
				ID:            info.ID(),
				DisplayName:   c.DisplayName,
				Description:   c.Description,
				ContextWindow: c.ContextWindow,
				MaxOutput:     c.MaxOutput,
			})
		}
		providers = append(providers, entry)
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"defaultModel": h.defaultModel,
		"providers":    providers,
	})
}

// ListPersonas returns the persona presets
// GET /api/personas
func (h *CatalogHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"personas": h.prompts.Personas()})
}

// ListLanguages returns the supported reply languages
// GET /api/languages
func (h *CatalogHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"defaultLanguage": h.prompts.DefaultLanguage(),
		"languages":       h.prompts.Languages(),
	})
}
