package config

import "time"

const (
	// MinUsernameLength and MaxUsernameLength bound account usernames.
	MinUsernameLength = 3
	MaxUsernameLength = 30

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// BcryptCost is the work factor for stored password hashes.
	BcryptCost = 10

	// MaxChatTitleLength is the maximum length for chat titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxChatTitleLength = 255

	// MaxMessageLength caps a single user message.
	MaxMessageLength = 10000

	// MaxContextLength caps the free-form persona context prepended to the system prompt.
	MaxContextLength = 4000

	// DefaultHistoryWindow is how many recent messages are sent to the model.
	DefaultHistoryWindow = 10

	// DefaultMaxOutputTokens bounds the reply length.
	DefaultMaxOutputTokens = 500

	// DefaultTemperature is the fixed sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTokenTTL is the bearer token lifetime. There is no refresh.
	DefaultTokenTTL = 7 * 24 * time.Hour

	// SourceLanguage is the language models answer in unprompted; replies in
	// it are never translated.
	SourceLanguage = "en"
)
