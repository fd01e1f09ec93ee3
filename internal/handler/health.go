package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"polychat/internal/httputil"
)

// HealthHandler reports liveness and describes the API
type HealthHandler struct {
	ping    func(ctx context.Context) error
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler. ping may be nil.
func NewHealthHandler(ping func(ctx context.Context) error, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		ping:    ping,
		version: version,
		logger:  logger,
	}
}

// Health checks that the store answers
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			h.logger.Error("health check failed", "error", err)
			httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, "database unavailable", map[string]interface{}{
				"status": "unavailable",
			})
			return
		}
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// Info lists the public routes
// GET /api
func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"name":    "polychat",
		"version": h.version,
		"routes": []string{
			"POST /api/auth/register",
			"POST /api/auth/login",
			"GET /api/auth/profile",
			"POST /api/auth/logout",
			"GET /api/user/preferences",
			"POST /api/user/preferences",
			"GET /api/models",
			"GET /api/personas",
			"GET /api/languages",
			"POST /api/chat",
			"GET /api/chats",
			"POST /api/chats",
			"GET /api/chats/{chatId}",
			"PUT /api/chats/{chatId}",
			"DELETE /api/chats/{chatId}",
			"GET /api/chats/{chatId}/messages",
			"POST /api/chats/{chatId}/messages",
			"PUT /api/chats/{chatId}/messages/{messageId}",
			"DELETE /api/chats/{chatId}/messages/{messageId}",
		},
	})
}
