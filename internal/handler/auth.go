package handler

import (
	"log/slog"
	"net/http"

	"polychat/internal/domain/services"
	"polychat/internal/httputil"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an account and signs it in
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !parseBody(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, httputil.Envelope{
		"message": "user registered",
		"user":    result.User,
		"token":   result.Token,
	})
}

// Login exchanges credentials for a token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !parseBody(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"message": "login successful",
		"user":    result.User,
		"token":   result.Token,
	})
}

// Profile returns the authenticated user
// GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetCaller(r).UserID()

	user, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"user": user})
}

// Logout acknowledges a logout. Tokens are stateless, so the client discards its own.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"message": "logged out"})
}
