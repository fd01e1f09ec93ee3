package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"polychat/internal/domain/models"
)

func TestPgErrorHelpers(t *testing.T) {
	dup := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505", ConstraintName: "dev_users_email_key"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(fk))
	assert.True(t, IsPgForeignKeyError(fk))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("x: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgNoRowsError(errors.New("other")))
}

func TestDuplicateField(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"users_username_key", "username"},
		{"dev_users_email_key", "email"},
		{"", ""},
	}
	for _, tt := range tests {
		err := &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint}
		assert.Equal(t, tt.want, duplicateField(err), tt.constraint)
	}
	assert.Equal(t, "", duplicateField(errors.New("plain")))
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	assert.Equal(t, "test_users", tables.Users)
	assert.Equal(t, "test_chats", tables.Chats)
	assert.Equal(t, "test_messages", tables.Messages)
}

func TestReverse(t *testing.T) {
	msgs := []models.Message{{ID: 1}, {ID: 2}, {ID: 3}}
	reverse(msgs)
	assert.Equal(t, []int64{3, 2, 1}, []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}
