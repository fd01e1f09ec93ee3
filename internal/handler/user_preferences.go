package handler

import (
	"log/slog"
	"net/http"

	"polychat/internal/domain/models"
	"polychat/internal/domain/services"
	"polychat/internal/httputil"
)

// UserPreferencesHandler handles user preferences HTTP requests
type UserPreferencesHandler struct {
	service services.UserPreferencesService
	logger  *slog.Logger
}

// NewUserPreferencesHandler creates a new user preferences handler
func NewUserPreferencesHandler(service services.UserPreferencesService, logger *slog.Logger) *UserPreferencesHandler {
	return &UserPreferencesHandler{
		service: service,
		logger:  logger,
	}
}

// updatePreferencesBody distinguishes an absent field (keep) from null (reset)
type updatePreferencesBody struct {
	Model    httputil.OptionalString `json:"model"`
	Language httputil.OptionalString `json:"language"`
}

// GetPreferences returns the caller's preferences with defaults filled in
// GET /api/user/preferences
func (h *UserPreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetCaller(r).UserID()

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"preferences": prefs})
}

// UpdatePreferences updates the preferred model and language
// POST /api/user/preferences
func (h *UserPreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetCaller(r).UserID()

	var body updatePreferencesBody
	if !parseBody(w, r, &body) {
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, &models.UpdatePreferencesRequest{
		Model:    body.Model.Patch(),
		Language: body.Language.Patch(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"message":     "preferences updated",
		"preferences": prefs,
	})
}
