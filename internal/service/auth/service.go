package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	jwtauth "polychat/internal/auth"
	"polychat/internal/config"
	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
)

// errBadCredentials is returned for every login failure so callers cannot
// tell a missing account from a wrong password
var errBadCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)

// comparePassword is swapped in tests to observe the unknown-user path
var comparePassword = jwtauth.ComparePassword

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// absentUserHash is compared against when the username is unknown so both
// login failures cost one bcrypt comparison
func absentUserHash() string {
	dummyHashOnce.Do(func() {
		hash, err := jwtauth.HashPassword("polychat-absent-user")
		if err == nil {
			dummyHash = hash
		}
	})
	return dummyHash
}

// authService implements the AuthService interface
type authService struct {
	users  repositories.UserRepository
	tokens jwtauth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	tokens jwtauth.TokenManager,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account and signs a token for it
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRegisterRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := jwtauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	return &services.AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and signs a token
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_, _ = comparePassword(absentUserHash(), req.Password)
			s.logger.Debug("login failed: unknown username")
			return nil, errBadCredentials
		}
		return nil, err
	}

	ok, err := comparePassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok || !user.IsActive {
		s.logger.Debug("login failed", "user_id", user.ID, "active", user.IsActive)
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &services.AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to its active user
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found or inactive", domain.ErrUnauthorized)
		}
		return nil, err
	}

	return user, nil
}

// Profile reloads a user by id
func (s *authService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func validateRegisterRequest(req *services.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(config.MinUsernameLength, config.MaxUsernameLength).
				Error(fmt.Sprintf("username must be between %d and %d characters", config.MinUsernameLength, config.MaxUsernameLength)),
		),
		validation.Field(&req.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email must be a valid email address"),
		),
		validation.Field(&req.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(config.MinPasswordLength, 0).
				Error(fmt.Sprintf("password must be at least %d characters", config.MinPasswordLength)),
		),
	)
}
