package llm

// SystemPromptResolver builds the system prompt for a completion.
// The language instruction always comes last; a persona preset or free-form
// context, when given, is prepended to it.
type SystemPromptResolver interface {
	// Resolve returns domain.ErrValidation for an unknown persona id.
	// Unknown languages fall back to the default template.
	Resolve(language, persona, context string) (string, error)

	// Normalize maps a language tag such as "de-DE" to a supported base code,
	// returning the default language when unsupported
	Normalize(language string) string

	// LanguageName returns the English name used in translation prompts
	LanguageName(code string) string
}
