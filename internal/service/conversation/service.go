package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"polychat/internal/config"
	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
	domainllm "polychat/internal/domain/services/llm"
	"polychat/internal/service/auth"
	"polychat/internal/service/llm"
)

// ReplyGenerator produces the AI reply for a conversation window.
// llm.ResponseGenerator is the production implementation.
type ReplyGenerator interface {
	Generate(ctx context.Context, req *llm.ReplyRequest) (*llm.Reply, error)
}

// LanguageCatalog normalizes reply languages and knows the persona presets
type LanguageCatalog interface {
	Normalize(language string) string
	HasPersona(id string) bool
}

// Defaults are the server-side fallbacks for model, language and history size
type Defaults struct {
	Model         string
	Language      string
	HistoryWindow int
}

// Service implements the ConversationService interface
type Service struct {
	messages   repositories.MessageRepository
	chats      repositories.ChatRepository
	txManager  repositories.TransactionManager
	authorizer *auth.ChatAuthorizer
	models     *llm.ModelValidator
	catalog    LanguageCatalog
	generator  ReplyGenerator
	defaults   Defaults
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a new conversation service
func NewService(
	messages repositories.MessageRepository,
	chats repositories.ChatRepository,
	txManager repositories.TransactionManager,
	authorizer *auth.ChatAuthorizer,
	modelValidator *llm.ModelValidator,
	catalog LanguageCatalog,
	generator ReplyGenerator,
	defaults Defaults,
	logger *slog.Logger,
) *Service {
	if defaults.HistoryWindow <= 0 {
		defaults.HistoryWindow = config.DefaultHistoryWindow
	}
	return &Service{
		messages:   messages,
		chats:      chats,
		txManager:  txManager,
		authorizer: authorizer,
		models:     modelValidator,
		catalog:    catalog,
		generator:  generator,
		defaults:   defaults,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

var _ services.ConversationService = (*Service)(nil)

// ListMessages returns the chat's messages in chronological order
func (s *Service) ListMessages(ctx context.Context, caller models.Caller, chatID int64) ([]models.Message, error) {
	if _, err := s.authorizer.ViewableChat(ctx, caller, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, chatID)
}

// SendMessage stores the user's message, asks the model for a reply and stores that too.
// Provider failures still produce a (canned) AI message.
func (s *Service) SendMessage(ctx context.Context, caller models.Caller, chatID int64, req *services.SendMessageRequest) (*services.SendMessageResult, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validateText(&req.Message, "message"); err != nil {
		return nil, err
	}
	opts, err := s.resolveOptions(caller, &req.ReplyOptions)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizer.ViewableChat(ctx, caller, chatID); err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ChatID:    chatID,
		Text:      req.Message,
		Sender:    models.SenderUser,
		CreatedAt: s.now(),
	}
	if err := s.messages.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	// The user's message is stored; finish the exchange even if the client goes away
	ctx = context.WithoutCancel(ctx)

	window, err := s.messages.RecentMessages(ctx, chatID, s.defaults.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	opts.History = toHistory(window)
	reply, err := s.generator.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	aiMsg := &models.Message{
		ChatID:       chatID,
		Text:         reply.Text,
		OriginalText: reply.OriginalText,
		Sender:       models.SenderAI,
	}
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.appendReply(txCtx, aiMsg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("message exchanged",
		"chat_id", chatID,
		"user_message_id", userMsg.ID,
		"ai_message_id", aiMsg.ID,
		"model", reply.Model,
		"language", opts.Language,
		"fallback", reply.Fallback,
		"translated", reply.OriginalText != nil,
	)

	return &services.SendMessageResult{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

// EditMessage rewrites a user message, truncates the chat after it and appends a fresh reply.
// The reply is generated before any write so the truncation and the new reply land in
// one transaction.
func (s *Service) EditMessage(ctx context.Context, caller models.Caller, chatID, messageID int64, req *services.EditMessageRequest) (*services.EditMessageResult, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validateText(&req.Text, "text"); err != nil {
		return nil, err
	}
	opts, err := s.resolveOptions(caller, &req.ReplyOptions)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizer.ViewableChat(ctx, caller, chatID); err != nil {
		return nil, err
	}

	msg, err := s.messages.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Sender != models.SenderUser {
		return nil, fmt.Errorf("%w: only user messages can be edited", domain.ErrValidation)
	}

	window, err := s.messages.MessagesUpTo(ctx, msg, s.defaults.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for i := range window {
		if window[i].ID == msg.ID {
			window[i].Text = req.Text
		}
	}

	ctx = context.WithoutCancel(ctx)

	opts.History = toHistory(window)
	reply, err := s.generator.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	aiMsg := &models.Message{
		ChatID:       chatID,
		Text:         reply.Text,
		OriginalText: reply.OriginalText,
		Sender:       models.SenderAI,
	}
	var removed int64
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		n, err := s.messages.DeleteMessagesAfter(txCtx, msg)
		if err != nil {
			return err
		}
		removed = n

		original := msg.Text
		if err := s.messages.UpdateMessageText(txCtx, msg, req.Text, &original); err != nil {
			return err
		}

		return s.appendReply(txCtx, aiMsg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("message edited",
		"chat_id", chatID,
		"message_id", msg.ID,
		"removed", removed,
		"ai_message_id", aiMsg.ID,
		"model", reply.Model,
		"fallback", reply.Fallback,
	)

	return &services.EditMessageResult{UpdatedMessage: msg, AIMessage: aiMsg, Removed: removed}, nil
}

// DeleteMessage removes a single user message from a visible chat
func (s *Service) DeleteMessage(ctx context.Context, caller models.Caller, chatID, messageID int64) error {
	if _, err := s.authorizer.ViewableChat(ctx, caller, chatID); err != nil {
		return err
	}

	msg, err := s.messages.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	if msg.Sender != models.SenderUser {
		return fmt.Errorf("%w: only user messages can be deleted", domain.ErrValidation)
	}

	if err := s.messages.DeleteMessage(ctx, chatID, messageID); err != nil {
		return err
	}

	s.logger.Info("message deleted", "chat_id", chatID, "message_id", messageID)

	return nil
}

// Complete answers a client-held transcript without touching the store
func (s *Service) Complete(ctx context.Context, caller models.Caller, req *services.CompleteRequest) (*services.CompleteResult, error) {
	if len(req.Messages) == 0 && strings.TrimSpace(req.Message) != "" {
		req.Messages = []services.CompleteMessage{{Role: "user", Content: req.Message}}
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Messages,
			validation.Required.Error("messages are required"),
			validation.Each(validation.By(validateCompleteMessage)),
			validation.By(endsWithUserTurn),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	opts, err := s.resolveOptions(caller, &req.ReplyOptions)
	if err != nil {
		return nil, err
	}

	history := make([]domainllm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, domainllm.Message{Role: m.Role, Content: strings.TrimSpace(m.Content)})
	}
	if len(history) > s.defaults.HistoryWindow {
		history = history[len(history)-s.defaults.HistoryWindow:]
	}

	opts.History = history
	reply, err := s.generator.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &services.CompleteResult{
		Reply:    reply.Text,
		Model:    reply.Model,
		Language: opts.Language,
	}, nil
}

// appendReply stores the AI message and bumps the chat's activity time
func (s *Service) appendReply(ctx context.Context, aiMsg *models.Message) error {
	now := s.now()
	aiMsg.CreatedAt = now
	if err := s.messages.CreateMessage(ctx, aiMsg); err != nil {
		return err
	}
	return s.chats.TouchChat(ctx, aiMsg.ChatID, now)
}

// resolveOptions validates the per-request knobs and fills the model and
// language from the caller's preferences or the server defaults
func (s *Service) resolveOptions(caller models.Caller, opts *services.ReplyOptions) (*llm.ReplyRequest, error) {
	opts.Persona = strings.TrimSpace(opts.Persona)
	opts.Context = strings.TrimSpace(opts.Context)

	err := validation.ValidateStruct(opts,
		validation.Field(&opts.Persona, validation.By(s.validatePersona)),
		validation.Field(&opts.Context,
			validation.RuneLength(0, config.MaxContextLength).
				Error(fmt.Sprintf("context must be at most %d characters", config.MaxContextLength)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	model, err := s.resolveModel(caller, strings.TrimSpace(opts.Model))
	if err != nil {
		return nil, err
	}

	return &llm.ReplyRequest{
		Model:    model,
		Language: s.resolveLanguage(caller, opts.Language),
		Persona:  opts.Persona,
		Context:  opts.Context,
	}, nil
}

// resolveModel picks request, then preference, then default. An explicit
// request for a model off the allow-list is an error; a stale preference
// falls back to the default.
func (s *Service) resolveModel(caller models.Caller, requested string) (*llm.ModelInfo, error) {
	if requested != "" {
		return s.models.Validate(requested)
	}

	if user := caller.User(); user != nil && user.PreferredModel != "" {
		info, err := s.models.Validate(user.PreferredModel)
		if err == nil {
			return info, nil
		}
		s.logger.Warn("preferred model no longer allowed",
			"user_id", user.ID,
			"model", user.PreferredModel,
		)
	}

	info, err := s.models.Validate(s.defaults.Model)
	if err != nil {
		// A bad DEFAULT_MODEL is a server fault, not a client error
		return nil, fmt.Errorf("default model %q: %v", s.defaults.Model, err)
	}
	return info, nil
}

func (s *Service) resolveLanguage(caller models.Caller, requested string) string {
	if strings.TrimSpace(requested) != "" {
		return s.catalog.Normalize(requested)
	}
	if user := caller.User(); user != nil && user.PreferredLanguage != "" {
		return s.catalog.Normalize(user.PreferredLanguage)
	}
	return s.catalog.Normalize(s.defaults.Language)
}

func (s *Service) validatePersona(value interface{}) error {
	id, _ := value.(string)
	if id == "" || s.catalog.HasPersona(id) {
		return nil
	}
	return fmt.Errorf("unknown persona %q", id)
}

func (s *Service) validateText(text *string, field string) error {
	err := validation.Validate(text,
		validation.Required.Error(field+" is required"),
		validation.RuneLength(1, config.MaxMessageLength).
			Error(fmt.Sprintf("%s must be at most %d characters", field, config.MaxMessageLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateCompleteMessage(value interface{}) error {
	m, ok := value.(services.CompleteMessage)
	if !ok {
		return errors.New("invalid message")
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Role, validation.Required, validation.In("user", "assistant")),
		validation.Field(&m.Content, validation.Required,
			validation.RuneLength(1, config.MaxMessageLength)),
	)
}

func endsWithUserTurn(value interface{}) error {
	msgs, _ := value.([]services.CompleteMessage)
	if len(msgs) > 0 && msgs[len(msgs)-1].Role != "user" {
		return errors.New("the last message must be from the user")
	}
	return nil
}

func toHistory(messages []models.Message) []domainllm.Message {
	history := make([]domainllm.Message, len(messages))
	for i, m := range messages {
		history[i] = domainllm.Message{Role: m.Sender.Role(), Content: m.Text}
	}
	return history
}
