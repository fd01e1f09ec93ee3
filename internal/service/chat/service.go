package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"polychat/internal/config"
	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
	"polychat/internal/service/auth"
)

// Service implements the ChatService interface
type Service struct {
	chats      repositories.ChatRepository
	authorizer *auth.ChatAuthorizer
	logger     *slog.Logger
}

// NewService creates a new chat service
func NewService(
	chats repositories.ChatRepository,
	authorizer *auth.ChatAuthorizer,
	logger *slog.Logger,
) services.ChatService {
	return &Service{
		chats:      chats,
		authorizer: authorizer,
		logger:     logger,
	}
}

// ListChats returns the chats visible to the caller, most recently active first
func (s *Service) ListChats(ctx context.Context, caller models.Caller) ([]models.Chat, error) {
	userID, _ := caller.UserID()
	var owner *int64
	if !caller.IsAnonymous() {
		owner = &userID
	}
	return s.chats.ListVisibleChats(ctx, owner)
}

// CreateChat creates a chat owned by the caller, or an anonymous one
func (s *Service) CreateChat(ctx context.Context, caller models.Caller, req *services.CreateChatRequest) (*models.Chat, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateTitle(&req.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	chat := &models.Chat{
		Title:       req.Title,
		UserID:      caller.OwnerID(),
		IsAnonymous: caller.IsAnonymous(),
	}
	if err := s.chats.CreateChat(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", chat.ID,
		"anonymous", chat.IsAnonymous,
	)

	return chat, nil
}

// GetChat returns a chat the caller can view
func (s *Service) GetChat(ctx context.Context, caller models.Caller, chatID int64) (*models.Chat, error) {
	return s.authorizer.ViewableChat(ctx, caller, chatID)
}

// UpdateChat renames a chat owned by the caller
func (s *Service) UpdateChat(ctx context.Context, caller models.Caller, chatID int64, req *services.UpdateChatRequest) (*models.Chat, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateTitle(&req.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.authorizer.MutableChat(ctx, caller, chatID); err != nil {
		return nil, err
	}

	chat, err := s.chats.UpdateTitle(ctx, chatID, req.Title)
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat renamed", "id", chatID)

	return chat, nil
}

// DeleteChat removes a chat owned by the caller together with its messages
func (s *Service) DeleteChat(ctx context.Context, caller models.Caller, chatID int64) error {
	if _, err := s.authorizer.MutableChat(ctx, caller, chatID); err != nil {
		return err
	}

	if err := s.chats.DeleteChat(ctx, chatID); err != nil {
		return err
	}

	s.logger.Info("chat deleted", "id", chatID)

	return nil
}

func validateTitle(title *string) error {
	return validation.Validate(title,
		validation.Required.Error("title is required"),
		validation.RuneLength(1, config.MaxChatTitleLength).
			Error(fmt.Sprintf("title must be at most %d characters", config.MaxChatTitleLength)),
	)
}
