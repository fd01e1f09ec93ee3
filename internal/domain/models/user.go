package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID                int64     `json:"id" db:"id"`
	Username          string    `json:"username" db:"username"`
	Email             string    `json:"email" db:"email"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	IsActive          bool      `json:"isActive" db:"is_active"`
	PreferredModel    string    `json:"preferredModel" db:"preferred_model"`
	PreferredLanguage string    `json:"preferredLanguage" db:"preferred_language"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// Preferences returns the user's preference pair.
func (u *User) Preferences() *UserPreferences {
	return &UserPreferences{
		Model:    u.PreferredModel,
		Language: u.PreferredLanguage,
	}
}
