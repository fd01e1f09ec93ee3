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

const chatColumns = `id, title, user_id, is_anonymous, created_at, updated_at`

// PostgresChatRepository implements the ChatRepository interface using PostgreSQL
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChatRepository creates a new PostgresChatRepository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanChat(row rowScanner) (*models.Chat, error) {
	var c models.Chat
	if err := row.Scan(&c.ID, &c.Title, &c.UserID, &c.IsAnonymous, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChat creates a new chat session
func (r *PostgresChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	now := time.Now().UTC()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = now
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, user_id, is_anonymous, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		chat.Title,
		chat.UserID,
		chat.IsAnonymous,
		chat.CreatedAt,
		chat.UpdatedAt,
	).Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	return nil
}

// GetChat retrieves a chat by ID
func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID int64) (*models.Chat, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, chatColumns, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	chat, err := scanChat(executor.QueryRow(ctx, query, chatID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return chat, nil
}

// ListVisibleChats retrieves anonymous chats plus the user's own chats
func (r *PostgresChatRepository) ListVisibleChats(ctx context.Context, userID *int64) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE is_anonymous OR ($1::BIGINT IS NOT NULL AND user_id = $1)
		ORDER BY updated_at DESC, id DESC
	`, chatColumns, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// UpdateTitle renames a chat and bumps updated_at
func (r *PostgresChatRepository) UpdateTitle(ctx context.Context, chatID int64, title string) (*models.Chat, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET title = $2, updated_at = $3
		WHERE id = $1
		RETURNING %s
	`, r.tables.Chats, chatColumns)

	executor := GetExecutor(ctx, r.pool)
	chat, err := scanChat(executor.QueryRow(ctx, query, chatID, title, time.Now().UTC()))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update chat: %w", err)
	}

	return chat, nil
}

// TouchChat bumps updated_at
func (r *PostgresChatRepository) TouchChat(ctx context.Context, chatID int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET updated_at = $2 WHERE id = $1`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, chatID, at)
	if err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// DeleteChat removes a chat; messages are removed by ON DELETE CASCADE
func (r *PostgresChatRepository) DeleteChat(ctx context.Context, chatID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Chats)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}

	r.logger.Debug("chat deleted", "chat_id", chatID)
	return nil
}
