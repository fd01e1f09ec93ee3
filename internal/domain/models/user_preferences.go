package models

// UserPreferences holds the per-user defaults applied to completions
type UserPreferences struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

// UpdatePreferencesRequest is a partial update.
// A nil field is left unchanged; a field set to "" resets it to the server default.
type UpdatePreferencesRequest struct {
	Model    *string `json:"model,omitempty"`
	Language *string `json:"language,omitempty"`
}
