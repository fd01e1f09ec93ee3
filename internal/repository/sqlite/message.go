package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a GORM-backed MessageRepository
func NewMessageRepository(db *gorm.DB) repositories.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	row := Message{
		ChatID:       msg.ChatID,
		Text:         msg.Text,
		OriginalText: msg.OriginalText,
		Sender:       string(msg.Sender),
		CreatedAt:    msg.CreatedAt,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	msg.ID = row.ID
	msg.CreatedAt = row.CreatedAt
	return nil
}

func (r *messageRepository) GetMessage(ctx context.Context, chatID, messageID int64) (*models.Message, error) {
	var row Message
	err := conn(ctx, r.db).Where("id = ? AND chat_id = ?", messageID, chatID).First(&row).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("message %d", messageID))
	}
	return row.toModel()
}

func (r *messageRepository) ListMessages(ctx context.Context, chatID int64) ([]models.Message, error) {
	var rows []Message
	err := conn(ctx, r.db).Where("chat_id = ?", chatID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return toModels(rows)
}

func (r *messageRepository) RecentMessages(ctx context.Context, chatID int64, limit int) ([]models.Message, error) {
	var rows []Message
	err := conn(ctx, r.db).Where("chat_id = ?", chatID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	reverse(rows)
	return toModels(rows)
}

func (r *messageRepository) MessagesUpTo(ctx context.Context, msg *models.Message, limit int) ([]models.Message, error) {
	var rows []Message
	err := conn(ctx, r.db).
		Where("chat_id = ?", msg.ChatID).
		Where("(created_at < ? OR (created_at = ? AND id <= ?))", msg.CreatedAt, msg.CreatedAt, msg.ID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("messages up to %d: %w", msg.ID, err)
	}
	reverse(rows)
	return toModels(rows)
}

func (r *messageRepository) UpdateMessageText(ctx context.Context, msg *models.Message, text string, originalText *string) error {
	updates := map[string]interface{}{"text": text}
	if originalText != nil {
		updates["original_text"] = gorm.Expr("COALESCE(original_text, ?)", *originalText)
	}

	res := conn(ctx, r.db).Model(&Message{}).
		Where("id = ? AND chat_id = ?", msg.ID, msg.ChatID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %d: %w", msg.ID, domain.ErrNotFound)
	}

	updated, err := r.GetMessage(ctx, msg.ChatID, msg.ID)
	if err != nil {
		return err
	}
	*msg = *updated
	return nil
}

func (r *messageRepository) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	res := conn(ctx, r.db).Where("id = ? AND chat_id = ?", messageID, chatID).Delete(&Message{})
	if res.Error != nil {
		return fmt.Errorf("delete message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %d: %w", messageID, domain.ErrNotFound)
	}
	return nil
}

func (r *messageRepository) DeleteMessagesAfter(ctx context.Context, msg *models.Message) (int64, error) {
	res := conn(ctx, r.db).
		Where("chat_id = ?", msg.ChatID).
		Where("(created_at > ? OR (created_at = ? AND id > ?))", msg.CreatedAt, msg.CreatedAt, msg.ID).
		Delete(&Message{})
	if res.Error != nil {
		return 0, fmt.Errorf("truncate messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func reverse(rows []Message) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
