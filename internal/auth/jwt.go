package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
)

const tokenIssuer = "polychat"

// HMACTokenManager signs and verifies HS256 tokens with a process-wide secret.
type HMACTokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an HMACTokenManager
type Option func(*HMACTokenManager)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(m *HMACTokenManager) { m.now = now }
}

// NewHMACTokenManager fails if the secret is empty so the server cannot
// start without a signing key.
func NewHMACTokenManager(secret string, ttl time.Duration, logger *slog.Logger, opts ...Option) (*HMACTokenManager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	m := &HMACTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token that expires ttl after issuance.
func (m *HMACTokenManager) Issue(user *models.User) (string, error) {
	issuedAt := m.now()
	claims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature, algorithm and expiry.
func (m *HMACTokenManager) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		// Prevent algorithm confusion attacks
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		m.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.UserID <= 0 {
		m.logger.Debug("token missing user id")
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
