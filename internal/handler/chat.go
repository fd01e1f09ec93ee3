package handler

import (
	"log/slog"
	"net/http"

	"polychat/internal/domain/services"
	"polychat/internal/httputil"
)

// ChatHandler handles chat HTTP requests.
// Handlers only talk to services; visibility is decided there.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ListChats returns the chats visible to the caller, most recently active first
// GET /api/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"chats": chats})
}

// CreateChat creates a chat owned by the caller, or an anonymous one
// POST /api/chats
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req services.CreateChatRequest
	if !parseBody(w, r, &req) {
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), httputil.GetCaller(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, httputil.Envelope{"chat": chat})
}

// GetChat returns one chat
// GET /api/chats/{chatId}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), httputil.GetCaller(r), chatID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"chat": chat})
}

// UpdateChat renames a chat the caller owns
// PUT /api/chats/{chatId}
func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	var req services.UpdateChatRequest
	if !parseBody(w, r, &req) {
		return
	}

	chat, err := h.chatService.UpdateChat(r.Context(), httputil.GetCaller(r), chatID, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"chat": chat})
}

// DeleteChat removes a chat the caller owns, with its messages
// DELETE /api/chats/{chatId}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), httputil.GetCaller(r), chatID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, httputil.Envelope{"message": "chat deleted"})
}
