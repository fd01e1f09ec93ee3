package sqlite

import (
	"time"

	"polychat/internal/domain/models"
)

// User is the GORM row for models.User
type User struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	Username          string `gorm:"size:30;not null;uniqueIndex"`
	Email             string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash      string `gorm:"not null"`
	IsActive          bool   `gorm:"not null"`
	PreferredModel    string `gorm:"size:100;not null;default:''"`
	PreferredLanguage string `gorm:"size:8;not null;default:''"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Chat is the GORM row for models.Chat
type Chat struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:255;not null"`
	UserID      *int64 `gorm:"index"`
	User        *User  `gorm:"constraint:OnDelete:SET NULL"`
	IsAnonymous bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`
}

// Message is the GORM row for models.Message.
// The belongs-to Chat relation carries the cascading foreign key.
type Message struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	ChatID       int64     `gorm:"not null;index"`
	Chat         *Chat     `gorm:"constraint:OnDelete:CASCADE"`
	Text         string    `gorm:"not null"`
	OriginalText *string
	Sender       string    `gorm:"size:8;not null"`
	CreatedAt    time.Time
}

func (u *User) toModel() *models.User {
	return &models.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		IsActive:          u.IsActive,
		PreferredModel:    u.PreferredModel,
		PreferredLanguage: u.PreferredLanguage,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (c *Chat) toModel() *models.Chat {
	return &models.Chat{
		ID:          c.ID,
		Title:       c.Title,
		UserID:      c.UserID,
		IsAnonymous: c.IsAnonymous,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *Message) toModel() (*models.Message, error) {
	sender, err := models.ParseSender(m.Sender)
	if err != nil {
		return nil, err
	}
	return &models.Message{
		ID:           m.ID,
		ChatID:       m.ChatID,
		Text:         m.Text,
		OriginalText: m.OriginalText,
		Sender:       sender,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func toModels(rows []Message) ([]models.Message, error) {
	out := make([]models.Message, 0, len(rows))
	for i := range rows {
		m, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}
