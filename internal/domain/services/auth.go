package services

import (
	"context"

	"polychat/internal/domain/models"
)

// AuthService handles registration, login and bearer-token resolution
type AuthService interface {
	// Register creates an account and returns it with a fresh token.
	// Duplicate username or email yields *domain.ConflictError.
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)

	// Login verifies credentials. Every failure is the same generic
	// domain.ErrUnauthorized so accounts cannot be enumerated.
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)

	// Authenticate verifies a bearer token and loads its active user.
	// Returns domain.ErrInvalidToken for a bad token and
	// domain.ErrUnauthorized when the user is gone or inactive.
	Authenticate(ctx context.Context, token string) (*models.User, error)

	// Profile reloads the caller's account
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// RegisterRequest is the DTO for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the DTO for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult pairs an account with its bearer token
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
