package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"polychat/internal/domain"
	"polychat/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Unexpected errors are logged and reported without detail.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, conflictErr.Error(), map[string]interface{}{
			"field": conflictErr.Field,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses a positive integer route parameter.
// A malformed id cannot name an existing row, so it is reported as not found.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, domain.ErrNotFound)
	}
	return id, nil
}

// parseBody decodes the JSON body and answers 400 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
