package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"polychat/internal/domain"
)

// uniqueViolation returns the column behind a UNIQUE failure, or "" when
// err is not one. SQLite reports "UNIQUE constraint failed: users.email".
func uniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return "", false
	}
	msg := sqliteErr.Error()
	if i := strings.LastIndex(msg, "."); i >= 0 && i < len(msg)-1 {
		return msg[i+1:], true
	}
	return "", true
}

// notFound wraps gorm.ErrRecordNotFound as domain.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}
