package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/httputil"
)

// Authenticator resolves a bearer token to an active user.
// services.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid token before they reach the handler:
// a missing token is 401, a bad or expired one 403, and a deleted or inactive
// account 401.
func RequireAuth(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "access token required")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidToken):
					httputil.RespondError(w, http.StatusForbidden, "invalid token")
				case errors.Is(err, domain.ErrUnauthorized):
					httputil.RespondError(w, http.StatusUnauthorized, "user not found or inactive")
				default:
					logger.Error("authentication failed", "error", err, "path", r.URL.Path)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			next.ServeHTTP(w, httputil.WithCaller(r, models.Authenticated(user)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and treats
// every other request, including ones with bad tokens, as anonymous.
func OptionalAuth(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := models.Anonymous()

			if token := bearerToken(r); token != "" {
				user, err := auth.Authenticate(r.Context(), token)
				if err != nil {
					logger.Debug("optional auth: continuing anonymously", "error", err)
				} else {
					caller = models.Authenticated(user)
				}
			}

			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}
