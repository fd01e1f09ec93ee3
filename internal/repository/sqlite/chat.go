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

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a GORM-backed ChatRepository
func NewChatRepository(db *gorm.DB) repositories.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	row := Chat{
		Title:       chat.Title,
		UserID:      chat.UserID,
		IsAnonymous: chat.IsAnonymous,
		CreatedAt:   chat.CreatedAt,
		UpdatedAt:   chat.UpdatedAt,
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return fmt.Errorf("create chat: %w", err)
	}
	chat.ID = row.ID
	chat.CreatedAt = row.CreatedAt
	chat.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *chatRepository) GetChat(ctx context.Context, chatID int64) (*models.Chat, error) {
	var row Chat
	if err := conn(ctx, r.db).First(&row, chatID).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("chat %d", chatID))
	}
	return row.toModel(), nil
}

func (r *chatRepository) ListVisibleChats(ctx context.Context, userID *int64) ([]models.Chat, error) {
	q := conn(ctx, r.db).Where("is_anonymous = ?", true)
	if userID != nil {
		q = q.Or("user_id = ?", *userID)
	}

	var rows []Chat
	if err := q.Order("updated_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]models.Chat, 0, len(rows))
	for i := range rows {
		chats = append(chats, *rows[i].toModel())
	}
	return chats, nil
}

func (r *chatRepository) UpdateTitle(ctx context.Context, chatID int64, title string) (*models.Chat, error) {
	res := conn(ctx, r.db).Model(&Chat{}).Where("id = ?", chatID).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("update chat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return r.GetChat(ctx, chatID)
}

func (r *chatRepository) TouchChat(ctx context.Context, chatID int64, at time.Time) error {
	res := conn(ctx, r.db).Model(&Chat{}).Where("id = ?", chatID).UpdateColumn("updated_at", at.UTC())
	if res.Error != nil {
		return fmt.Errorf("touch chat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// DeleteChat relies on the messages.chat_id ON DELETE CASCADE constraint
func (r *chatRepository) DeleteChat(ctx context.Context, chatID int64) error {
	res := conn(ctx, r.db).Delete(&Chat{}, chatID)
	if res.Error != nil {
		return fmt.Errorf("delete chat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return nil
}
