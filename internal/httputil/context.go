package httputil

import (
	"context"
	"net/http"

	"polychat/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	callerKey contextKey = "caller"
)

// WithCaller adds the resolved caller to the request context
func WithCaller(r *http.Request, caller models.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller from context, anonymous if none was set
func GetCaller(r *http.Request) models.Caller {
	caller, ok := r.Context().Value(callerKey).(models.Caller)
	if !ok {
		return models.Anonymous()
	}
	return caller
}
