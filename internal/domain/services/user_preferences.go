package services

import (
	"context"

	"polychat/internal/domain/models"
)

// UserPreferencesService defines the business logic for user preferences operations
type UserPreferencesService interface {
	// GetPreferences returns the stored preferences with server defaults filled in
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreferences, error)

	// UpdatePreferences validates model and language, then upserts them
	UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.UserPreferences, error)
}
