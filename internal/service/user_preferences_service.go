package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
	"polychat/internal/service/llm"
)

// LanguageSupport answers which reply languages exist
type LanguageSupport interface {
	IsSupported(language string) bool
	Normalize(language string) string
}

// UserPreferencesService implements the UserPreferencesService interface
type UserPreferencesService struct {
	users           repositories.UserRepository
	models          *llm.ModelValidator
	languages       LanguageSupport
	defaultModel    string
	defaultLanguage string
	logger          *slog.Logger
}

// NewUserPreferencesService creates a new user preferences service
func NewUserPreferencesService(
	users repositories.UserRepository,
	modelValidator *llm.ModelValidator,
	languages LanguageSupport,
	defaultModel, defaultLanguage string,
	logger *slog.Logger,
) services.UserPreferencesService {
	return &UserPreferencesService{
		users:           users,
		models:          modelValidator,
		languages:       languages,
		defaultModel:    defaultModel,
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// withDefaults fills unset preferences with the server defaults
func (s *UserPreferencesService) withDefaults(prefs *models.UserPreferences) *models.UserPreferences {
	if prefs.Model == "" {
		prefs.Model = s.defaultModel
	}
	if prefs.Language == "" {
		prefs.Language = s.defaultLanguage
	}
	return prefs
}

// GetPreferences retrieves preferences for a user
func (s *UserPreferencesService) GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return s.withDefaults(user.Preferences()), nil
}

// UpdatePreferences updates user preferences (partial update)
func (s *UserPreferencesService) UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	if req.Model != nil {
		model := strings.TrimSpace(*req.Model)
		if model != "" {
			info, err := s.models.Validate(model)
			if err != nil {
				return nil, err
			}
			model = info.ID()
		}
		req.Model = &model
	}

	if req.Language != nil {
		language := strings.TrimSpace(*req.Language)
		if language != "" {
			if !s.languages.IsSupported(language) {
				return nil, fmt.Errorf("%w: unsupported language %q", domain.ErrValidation, language)
			}
			language = s.languages.Normalize(language)
		}
		req.Language = &language
	}

	user, err := s.users.UpdatePreferences(ctx, userID, req.Model, req.Language)
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	s.logger.Info("preferences updated",
		"user_id", userID,
		"model", user.PreferredModel,
		"language", user.PreferredLanguage,
	)

	return s.withDefaults(user.Preferences()), nil
}
