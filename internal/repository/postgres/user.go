package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
)

const userColumns = `id, username, email, password_hash, is_active, preferred_model, preferred_language, created_at, updated_at`

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.PreferredModel,
		&u.PreferredLanguage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (username, email, password_hash, is_active, preferred_model, preferred_language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.PreferredModel,
		user.PreferredLanguage,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			field := duplicateField(err)
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

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)
	return r.getOne(ctx, query, id)
}

// GetActiveByID retrieves an active user by ID
func (r *PostgresUserRepository) GetActiveByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND is_active`, userColumns, r.tables.Users)
	return r.getOne(ctx, query, id)
}

// GetByUsername retrieves a user by exact username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1`, userColumns, r.tables.Users)
	return r.getOne(ctx, query, username)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	executor := GetExecutor(ctx, r.pool)
	user, err := scanUser(executor.QueryRow(ctx, query, arg))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdatePreferences sets whichever preference fields are non-nil
func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, userID int64, model, language *string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			preferred_model = COALESCE($2, preferred_model),
			preferred_language = COALESCE($3, preferred_language),
			updated_at = $4
		WHERE id = $1
		RETURNING %s
	`, r.tables.Users, userColumns)

	executor := GetExecutor(ctx, r.pool)
	user, err := scanUser(executor.QueryRow(ctx, query, userID, model, language, time.Now().UTC()))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	r.logger.Debug("user preferences updated", "user_id", userID)
	return user, nil
}
