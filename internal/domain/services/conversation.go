package services

import (
	"context"

	"polychat/internal/domain/models"
)

// ConversationService runs the message pipeline: persist the user turn,
// ask the model for a reply and persist that too.
type ConversationService interface {
	ListMessages(ctx context.Context, caller models.Caller, chatID int64) ([]models.Message, error)

	SendMessage(ctx context.Context, caller models.Caller, chatID int64, req *SendMessageRequest) (*SendMessageResult, error)

	// EditMessage rewrites a user message, drops every later message and
	// appends a fresh reply, atomically
	EditMessage(ctx context.Context, caller models.Caller, chatID, messageID int64, req *EditMessageRequest) (*EditMessageResult, error)

	DeleteMessage(ctx context.Context, caller models.Caller, chatID, messageID int64) error

	// Complete answers a transcript supplied by the client without storing anything
	Complete(ctx context.Context, caller models.Caller, req *CompleteRequest) (*CompleteResult, error)
}

// ReplyOptions are the per-request knobs shared by every completion call.
// Empty values fall back to the caller's preferences, then server defaults.
type ReplyOptions struct {
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
	Persona  string `json:"persona,omitempty"`
	Context  string `json:"context,omitempty"`
}

// SendMessageRequest is the DTO for posting a message to a chat
type SendMessageRequest struct {
	Message string `json:"message"`
	ReplyOptions
}

// SendMessageResult carries both persisted turns
type SendMessageResult struct {
	UserMessage *models.Message
	AIMessage   *models.Message
}

// EditMessageRequest is the DTO for rewriting a user message
type EditMessageRequest struct {
	Text string `json:"text"`
	ReplyOptions
}

// EditMessageResult carries the rewritten message and its new reply
type EditMessageResult struct {
	UpdatedMessage *models.Message
	AIMessage      *models.Message
	Removed        int64
}

// CompleteRequest is a stateless completion over client-held history.
// A bare Message is shorthand for a one-turn transcript.
type CompleteRequest struct {
	Messages []CompleteMessage `json:"messages"`
	Message  string            `json:"message,omitempty"`
	ReplyOptions
}

// CompleteMessage is one client-supplied turn
type CompleteMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteResult is the reply of a stateless completion
type CompleteResult struct {
	Reply    string `json:"reply"`
	Model    string `json:"model"`
	Language string `json:"language"`
}
