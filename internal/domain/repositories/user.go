package repositories

import (
	"context"

	"polychat/internal/domain/models"
)

// UserRepository persists user accounts
type UserRepository interface {
	// Create inserts the user and fills ID and timestamps.
	// Returns *domain.ConflictError if the username or email is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns domain.ErrNotFound if no user has the id
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetActiveByID is GetByID restricted to active accounts
	GetActiveByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername matches the username exactly (case-sensitive)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePreferences sets the non-nil preference fields and returns the updated user
	UpdatePreferences(ctx context.Context, userID int64, model, language *string) (*models.User, error)
}
