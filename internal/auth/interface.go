package auth

import "polychat/internal/domain/models"

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	// Issue returns a signed token embedding the user's id, username and email.
	Issue(user *models.User) (string, error)
}

// JWTVerifier defines the interface for JWT token verification.
// This abstraction keeps the auth service agnostic to the signing scheme.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrInvalidToken if the token is malformed, expired,
	// or has an invalid signature.
	VerifyToken(tokenString string) (*models.TokenClaims, error)
}

// TokenManager issues and verifies tokens with one key.
type TokenManager interface {
	TokenIssuer
	JWTVerifier
}
