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

const messageColumns = `id, chat_id, text, original_text, sender, created_at`

// PostgresMessageRepository implements the MessageRepository interface
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewMessageRepository creates a new PostgresMessageRepository
func NewMessageRepository(config *RepositoryConfig) repositories.MessageRepository {
	return &PostgresMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		m      models.Message
		sender string
	)
	if err := row.Scan(&m.ID, &m.ChatID, &m.Text, &m.OriginalText, &sender, &m.CreatedAt); err != nil {
		return nil, err
	}
	s, err := models.ParseSender(sender)
	if err != nil {
		return nil, err
	}
	m.Sender = s
	return &m, nil
}

func (r *PostgresMessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]models.Message, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// CreateMessage inserts a message
func (r *PostgresMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (chat_id, text, original_text, sender, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		msg.ChatID,
		msg.Text,
		msg.OriginalText,
		string(msg.Sender),
		msg.CreatedAt,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("chat %d: %w", msg.ChatID, domain.ErrNotFound)
		}
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// GetMessage retrieves a message scoped to its chat
func (r *PostgresMessageRepository) GetMessage(ctx context.Context, chatID, messageID int64) (*models.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND chat_id = $2`, messageColumns, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	msg, err := scanMessage(executor.QueryRow(ctx, query, messageID, chatID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListMessages returns the chat transcript, oldest first
func (r *PostgresMessageRepository) ListMessages(ctx context.Context, chatID int64) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
	`, messageColumns, r.tables.Messages)
	return r.queryMessages(ctx, query, chatID)
}

// RecentMessages selects newest-first, then reverses into chronological order
func (r *PostgresMessageRepository) RecentMessages(ctx context.Context, chatID int64, limit int) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, messageColumns, r.tables.Messages)

	messages, err := r.queryMessages(ctx, query, chatID, limit)
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

// MessagesUpTo is RecentMessages anchored at msg instead of the chat's end
func (r *PostgresMessageRepository) MessagesUpTo(ctx context.Context, msg *models.Message, limit int) ([]models.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE chat_id = $1 AND (created_at, id) <= ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`, messageColumns, r.tables.Messages)

	messages, err := r.queryMessages(ctx, query, msg.ChatID, msg.CreatedAt, msg.ID, limit)
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

// UpdateMessageText replaces the text, keeping the first recorded original
func (r *PostgresMessageRepository) UpdateMessageText(ctx context.Context, msg *models.Message, text string, originalText *string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET text = $3, original_text = COALESCE(original_text, $4)
		WHERE id = $1 AND chat_id = $2
		RETURNING original_text
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, msg.ID, msg.ChatID, text, originalText).Scan(&msg.OriginalText)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("message %d: %w", msg.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update message: %w", err)
	}
	msg.Text = text
	return nil
}

// DeleteMessage removes one message
func (r *PostgresMessageRepository) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND chat_id = $2`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, messageID, chatID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
	}
	return nil
}

// DeleteMessagesAfter truncates the chat after msg
func (r *PostgresMessageRepository) DeleteMessagesAfter(ctx context.Context, msg *models.Message) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE chat_id = $1 AND (created_at, id) > ($2, $3)
	`, r.tables.Messages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, msg.ChatID, msg.CreatedAt, msg.ID)
	if err != nil {
		return 0, fmt.Errorf("truncate messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func reverse(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
