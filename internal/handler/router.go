package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"polychat/internal/httputil"
	"polychat/internal/middleware"
)

// RateLimits are the per-minute budgets for the completion routes
type RateLimits struct {
	Limiter    middleware.Limiter
	AuthPerMin int
	AnonPerMin int
}

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth        *AuthHandler
	Chat        *ChatHandler
	Message     *MessageHandler
	Preferences *UserPreferencesHandler
	Catalog     *CatalogHandler
	Health      *HealthHandler
}

// NewRouter wires the routes. Every route resolves a caller first:
// RequireAuth routes reject bad tokens, OptionalAuth routes fall back to anonymous.
func NewRouter(h Handlers, authenticator middleware.Authenticator, limits RateLimits, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	required := middleware.RequireAuth(authenticator, logger)
	optional := middleware.OptionalAuth(authenticator, logger)

	throttle := func(next http.Handler) http.Handler { return next }
	if limits.Limiter != nil {
		throttle = middleware.RateLimit(limits.Limiter, limits.AuthPerMin, limits.AnonPerMin, logger)
	}

	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Health.Info)

		r.Get("/models", h.Catalog.ListModels)
		r.Get("/personas", h.Catalog.ListPersonas)
		r.Get("/languages", h.Catalog.ListLanguages)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(required)
				r.Get("/profile", h.Auth.Profile)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/user/preferences", func(r chi.Router) {
			r.Use(required)
			r.Get("/", h.Preferences.GetPreferences)
			r.Post("/", h.Preferences.UpdatePreferences)
		})

		r.With(optional, throttle).Post("/chat", h.Message.Complete)

		r.Route("/chats", func(r chi.Router) {
			r.With(optional).Get("/", h.Chat.ListChats)
			r.With(optional).Post("/", h.Chat.CreateChat)

			r.Route("/{chatId}", func(r chi.Router) {
				r.With(optional).Get("/", h.Chat.GetChat)
				r.With(required).Put("/", h.Chat.UpdateChat)
				r.With(required).Delete("/", h.Chat.DeleteChat)

				r.Route("/messages", func(r chi.Router) {
					r.Use(optional)
					r.Get("/", h.Message.ListMessages)
					r.With(throttle).Post("/", h.Message.SendMessage)
					r.With(throttle).Put("/{messageId}", h.Message.EditMessage)
					r.Delete("/{messageId}", h.Message.DeleteMessage)
				})
			})
		})
	})

	return r
}
