package models

import (
	"fmt"
	"time"
)

// Sender identifies who produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Role maps the sender to the chat-completion role name.
func (s Sender) Role() string {
	if s == SenderAI {
		return "assistant"
	}
	return "user"
}

// ParseSender validates a stored sender value
func ParseSender(s string) (Sender, error) {
	switch Sender(s) {
	case SenderUser, SenderAI:
		return Sender(s), nil
	default:
		return "", fmt.Errorf("unknown sender: %q", s)
	}
}

// Message is one turn in a chat.
// OriginalText keeps the first pre-edit text of a user message, or the
// untranslated reply of an AI message.
type Message struct {
	ID           int64     `json:"id" db:"id"`
	ChatID       int64     `json:"chatId" db:"chat_id"`
	Text         string    `json:"text" db:"text"`
	OriginalText *string   `json:"originalText,omitempty" db:"original_text"`
	Sender       Sender    `json:"sender" db:"sender"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
