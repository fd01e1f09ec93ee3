package handler

import (
	"log/slog"
	"net/http"

	"polychat/internal/domain/services"
	"polychat/internal/httputil"
)

// MessageHandler handles the message pipeline and stateless completions
type MessageHandler struct {
	conversationService services.ConversationService
	logger              *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(conversationService services.ConversationService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		conversationService: conversationService,
		logger:              logger,
	}
}

// ListMessages returns a chat's messages in chronological order
// GET /api/chats/{chatId}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	messages, err := h.conversationService.ListMessages(r.Context(), httputil.GetCaller(r), chatID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"messages": messages})
}

// SendMessage stores a user message and answers it.
// Provider failures still return 200 with a fallback aiResponse.
// POST /api/chats/{chatId}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.SendMessageRequest
	if !parseBody(w, r, &req) {
		return
	}

	result, err := h.conversationService.SendMessage(r.Context(), httputil.GetCaller(r), chatID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"aiResponse":    result.AIMessage.Text,
		"userMessageId": result.UserMessage.ID,
		"aiMessageId":   result.AIMessage.ID,
		"userMessage":   result.UserMessage,
		"aiMessage":     result.AIMessage,
	})
}

// EditMessage rewrites a user message, truncates the chat after it and regenerates the reply
// PUT /api/chats/{chatId}/messages/{messageId}
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	messageID, err := pathID(r, "messageId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.EditMessageRequest
	if !parseBody(w, r, &req) {
		return
	}

	result, err := h.conversationService.EditMessage(r.Context(), httputil.GetCaller(r), chatID, messageID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"updatedMessage":  result.UpdatedMessage,
		"aiResponse":      result.AIMessage.Text,
		"aiMessageId":     result.AIMessage.ID,
		"aiMessage":       result.AIMessage,
		"removedMessages": result.Removed,
	})
}

// DeleteMessage removes a single user message
// DELETE /api/chats/{chatId}/messages/{messageId}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	messageID, err := pathID(r, "messageId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.conversationService.DeleteMessage(r.Context(), httputil.GetCaller(r), chatID, messageID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"message": "message deleted"})
}

// Complete answers a client-held transcript without storing anything
// POST /api/chat
func (h *MessageHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req services.CompleteRequest
	if !parseBody(w, r, &req) {
		return
	}

	result, err := h.conversationService.Complete(r.Context(), httputil.GetCaller(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{
		"reply":    result.Reply,
		"message":  result.Reply,
		"model":    result.Model,
		"language": result.Language,
	})
}
