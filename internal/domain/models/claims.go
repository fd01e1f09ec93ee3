package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the bearer token payload
type TokenClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
