package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtauth "polychat/internal/auth"
	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
	"polychat/internal/repository/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T) (services.AuthService, *repositories.Store) {
	t.Helper()
	store, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := jwtauth.NewHMACTokenManager("test-secret", 7*24*time.Hour, testLogger())
	require.NoError(t, err)

	return NewAuthService(store.Users, tokens, testLogger()), store
}

func register(t *testing.T, svc services.AuthService, username, email, password string) *services.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), &services.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	res := register(t, svc, "alice", "alice@x.com", "secret1")
	assert.NotEmpty(t, res.Token)
	assert.NotZero(t, res.User.ID)
	assert.True(t, res.User.IsActive)

	stored, err := store.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _ := newTestAuthService(t)
	register(t, svc, "alice", "alice@x.com", "secret1")

	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{"same username", "alice", "other@x.com", "username"},
		{"same email", "bob", "alice@x.com", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &services.RegisterRequest{
				Username: tt.username,
				Email:    tt.email,
				Password: "secret1",
			})
			require.ErrorIs(t, err, domain.ErrConflict)

			var conflict *domain.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.wantField, conflict.Field)
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  services.RegisterRequest
	}{
		{"missing username", services.RegisterRequest{Email: "a@x.com", Password: "secret1"}},
		{"short username", services.RegisterRequest{Username: "al", Email: "a@x.com", Password: "secret1"}},
		{"long username", services.RegisterRequest{Username: "abcdefghijklmnopqrstuvwxyz12345", Email: "a@x.com", Password: "secret1"}},
		{"bad email", services.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", services.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Register(context.Background(), &req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registered := register(t, svc, "alice", "alice@x.com", "secret1")

	t.Run("correct password", func(t *testing.T) {
		res, err := svc.Login(context.Background(), &services.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, errWrong := svc.Login(context.Background(), &services.LoginRequest{Username: "alice", Password: "nope123"})
		_, errUnknown := svc.Login(context.Background(), &services.LoginRequest{Username: "mallory", Password: "secret1"})

		require.ErrorIs(t, errWrong, domain.ErrUnauthorized)
		require.ErrorIs(t, errUnknown, domain.ErrUnauthorized)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &services.LoginRequest{Username: "alice"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLogin_UnknownUserStillHashes(t *testing.T) {
	svc, _ := newTestAuthService(t)
	register(t, svc, "alice", "alice@x.com", "secret1")

	var hashes []string
	orig := comparePassword
	comparePassword = func(hash, plaintext string) (bool, error) {
		hashes = append(hashes, hash)
		return orig(hash, plaintext)
	}
	t.Cleanup(func() { comparePassword = orig })

	tests := []struct {
		name     string
		username string
	}{
		{"unknown user", "mallory"},
		{"known user", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashes = nil
			_, err := svc.Login(context.Background(), &services.LoginRequest{Username: tt.username, Password: "wrong12"})
			require.ErrorIs(t, err, domain.ErrUnauthorized)
			require.Len(t, hashes, 1)
			assert.True(t, strings.HasPrefix(hashes[0], "$2a$10$"), "bcrypt cost 10 hash, got %q", hashes[0])
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registered := register(t, svc, "alice", "alice@x.com", "secret1")

	user, err := svc.Authenticate(context.Background(), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	// A valid token for an account that does not exist in this store
	tokens, err := jwtauth.NewHMACTokenManager("test-secret", time.Hour, testLogger())
	require.NoError(t, err)
	token, err := tokens.Issue(&models.User{ID: 999, Username: "ghost", Email: "ghost@x.com"})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChatAuthorizer(t *testing.T) {
	store, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h", IsActive: true}
	bob := &models.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h", IsActive: true}
	require.NoError(t, store.Users.Create(ctx, alice))
	require.NoError(t, store.Users.Create(ctx, bob))

	owned := &models.Chat{Title: "Alice's", UserID: &alice.ID}
	anon := &models.Chat{Title: "Open", IsAnonymous: true}
	require.NoError(t, store.Chats.CreateChat(ctx, owned))
	require.NoError(t, store.Chats.CreateChat(ctx, anon))

	authz := NewChatAuthorizer(store.Chats)

	tests := []struct {
		name        string
		caller      models.Caller
		chatID      int64
		wantView    bool
		wantMutable bool
	}{
		{"owner on own chat", models.Authenticated(alice), owned.ID, true, true},
		{"other user on owned chat", models.Authenticated(bob), owned.ID, false, false},
		{"anonymous on owned chat", models.Anonymous(), owned.ID, false, false},
		{"user on anonymous chat", models.Authenticated(bob), anon.ID, true, false},
		{"anonymous on anonymous chat", models.Anonymous(), anon.ID, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authz.ViewableChat(ctx, tt.caller, tt.chatID)
			if tt.wantView {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			}

			_, err = authz.MutableChat(ctx, tt.caller, tt.chatID)
			if tt.wantMutable {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			}
		})
	}

	_, err = authz.ViewableChat(ctx, models.Authenticated(alice), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
