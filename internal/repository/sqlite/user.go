package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	row := User{
		Username:          user.Username,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		IsActive:          user.IsActive,
		PreferredModel:    user.PreferredModel,
		PreferredLanguage: user.PreferredLanguage,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if field, ok := uniqueViolation(err); ok {
			if field == "" {
				field = "username or email"
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s already exists", field),
				ResourceType: "user",
				Field:        field,
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetActiveByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, "id = ? AND is_active = ?", id, true)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, where string, args ...interface{}) (*models.User, error) {
	var row User
	if err := conn(ctx, r.db).Where(where, args...).First(&row).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return row.toModel(), nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID int64, model, language *string) (*models.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if model != nil {
		updates["preferred_model"] = *model
	}
	if language != nil {
		updates["preferred_language"] = *language
	}

	res := conn(ctx, r.db).Model(&User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, userID)
}
