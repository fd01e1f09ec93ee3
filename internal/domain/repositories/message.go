package repositories

import (
	"context"

	"polychat/internal/domain/models"
)

// MessageRepository persists chat messages.
// Order is (created_at, id) ascending unless stated otherwise.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error

	// GetMessage returns domain.ErrNotFound unless the message belongs to chatID
	GetMessage(ctx context.Context, chatID, messageID int64) (*models.Message, error)

	ListMessages(ctx context.Context, chatID int64) ([]models.Message, error)

	// RecentMessages returns the newest limit messages in chronological order
	RecentMessages(ctx context.Context, chatID int64, limit int) ([]models.Message, error)

	// MessagesUpTo returns the newest limit messages at or before msg,
	// in chronological order
	MessagesUpTo(ctx context.Context, msg *models.Message, limit int) ([]models.Message, error)

	// UpdateMessageText replaces the text and, when originalText is non-nil
	// and none is stored yet, records it
	UpdateMessageText(ctx context.Context, msg *models.Message, text string, originalText *string) error

	DeleteMessage(ctx context.Context, chatID, messageID int64) error

	// DeleteMessagesAfter deletes every message of msg's chat created after msg
	// and returns how many were removed
	DeleteMessagesAfter(ctx context.Context, msg *models.Message) (int64, error)
}
