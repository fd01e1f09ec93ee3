package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the tables if they do not exist. Deleting a chat cascades
// to its messages; deleting a user leaves its chats behind as anonymous.
func Migrate(ctx context.Context, config *RepositoryConfig) error {
	t := config.Tables
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id                 BIGSERIAL PRIMARY KEY,
				username           VARCHAR(30)  NOT NULL UNIQUE,
				email              VARCHAR(255) NOT NULL UNIQUE,
				password_hash      TEXT         NOT NULL,
				is_active          BOOLEAN      NOT NULL DEFAULT TRUE,
				preferred_model    VARCHAR(100) NOT NULL DEFAULT '',
				preferred_language VARCHAR(8)   NOT NULL DEFAULT '',
				created_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
				updated_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW()
			)`, t.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id           BIGSERIAL PRIMARY KEY,
				title        VARCHAR(255) NOT NULL,
				user_id      BIGINT REFERENCES %s(id) ON DELETE SET NULL,
				is_anonymous BOOLEAN     NOT NULL DEFAULT FALSE,
				created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Chats, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_id_idx ON %s (user_id)`, t.Chats, t.Chats),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            BIGSERIAL PRIMARY KEY,
				chat_id       BIGINT      NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				text          TEXT        NOT NULL,
				original_text TEXT,
				sender        VARCHAR(8)  NOT NULL CHECK (sender IN ('user', 'ai')),
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, t.Messages, t.Chats),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_chat_created_idx ON %s (chat_id, created_at, id)`, t.Messages, t.Messages),
	}

	executor := GetExecutor(ctx, config.Pool)
	for _, stmt := range statements {
		if _, err := executor.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	config.Logger.Info("database schema ready",
		"users", t.Users,
		"chats", t.Chats,
		"messages", t.Messages,
	)
	return nil
}
