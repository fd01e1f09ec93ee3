package auth

import (
	"context"
	"fmt"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
)

// ChatAuthorizer loads chats on behalf of a caller and applies the
// visibility rules of models.Chat. A chat the caller may not see is
// reported as domain.ErrNotFound, never ErrForbidden, so its existence
// does not leak.
type ChatAuthorizer struct {
	chats repositories.ChatRepository
}

// NewChatAuthorizer creates a new chat authorizer
func NewChatAuthorizer(chats repositories.ChatRepository) *ChatAuthorizer {
	return &ChatAuthorizer{chats: chats}
}

// ViewableChat returns the chat if the caller owns it or it is anonymous
func (a *ChatAuthorizer) ViewableChat(ctx context.Context, caller models.Caller, chatID int64) (*models.Chat, error) {
	chat, err := a.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.CanView(caller) {
		return nil, fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return chat, nil
}

// MutableChat returns the chat only if the caller is its concrete owner
func (a *ChatAuthorizer) MutableChat(ctx context.Context, caller models.Caller, chatID int64) (*models.Chat, error) {
	chat, err := a.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.CanMutate(caller) {
		return nil, fmt.Errorf("chat %d: %w", chatID, domain.ErrNotFound)
	}
	return chat, nil
}
