package services

import (
	"context"

	"polychat/internal/domain/models"
)

// ChatService manages chats on behalf of a caller.
// Chats the caller may not see are reported as domain.ErrNotFound.
type ChatService interface {
	// ListChats returns owned plus anonymous chats for a user,
	// and only anonymous chats for an anonymous caller
	ListChats(ctx context.Context, caller models.Caller) ([]models.Chat, error)

	// CreateChat makes the caller the owner, or marks the chat anonymous
	CreateChat(ctx context.Context, caller models.Caller, req *CreateChatRequest) (*models.Chat, error)

	GetChat(ctx context.Context, caller models.Caller, chatID int64) (*models.Chat, error)

	// UpdateChat and DeleteChat require strict ownership
	UpdateChat(ctx context.Context, caller models.Caller, chatID int64, req *UpdateChatRequest) (*models.Chat, error)
	DeleteChat(ctx context.Context, caller models.Caller, chatID int64) error
}

// CreateChatRequest is the DTO for creating a new chat
type CreateChatRequest struct {
	Title string `json:"title"`
}

// UpdateChatRequest is the DTO for renaming a chat
type UpdateChatRequest struct {
	Title string `json:"title"`
}
