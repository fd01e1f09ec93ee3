package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"polychat/internal/config"
)

// HashPassword returns a bcrypt hash at config.BcryptCost.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), config.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether plaintext matches hash. The comparison is
// constant-time; a malformed hash is an error, a mismatch is not.
func ComparePassword(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
