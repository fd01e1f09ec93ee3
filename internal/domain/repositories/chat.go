package repositories

import (
	"context"
	"time"

	"polychat/internal/domain/models"
)

// ChatRepository persists chats. Visibility rules are applied by the
// service layer; GetChat does not filter by owner.
type ChatRepository interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChat(ctx context.Context, chatID int64) (*models.Chat, error)

	// ListVisibleChats returns the anonymous chats plus, when userID is
	// non-nil, the chats owned by that user. Newest activity first.
	ListVisibleChats(ctx context.Context, userID *int64) ([]models.Chat, error)

	UpdateTitle(ctx context.Context, chatID int64, title string) (*models.Chat, error)

	// TouchChat bumps updated_at
	TouchChat(ctx context.Context, chatID int64, at time.Time) error

	// DeleteChat removes the chat; its messages go with it via FK cascade
	DeleteChat(ctx context.Context, chatID int64) error
}
