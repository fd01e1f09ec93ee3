package auth

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/domain"
	"polychat/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *HMACTokenManager {
	t.Helper()
	m, err := NewHMACTokenManager("test-secret", 7*24*time.Hour, testLogger(), WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestNewHMACTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewHMACTokenManager("", time.Hour, testLogger())
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)
	user := &models.User{ID: 42, Username: "alice", Email: "alice@x.com"}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, clock.t.Add(7*24*time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestVerifyToken_Expiry(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "fresh", elapsed: 0},
		{name: "six days", elapsed: 6 * 24 * time.Hour},
		{name: "just past seven days", elapsed: 7*24*time.Hour + time.Second, wantErr: true},
		{name: "thirty days", elapsed: 30 * 24 * time.Hour, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: issued}
			m := newTestManager(t, clock)

			token, err := m.Issue(&models.User{ID: 1, Username: "bob", Email: "bob@x.com"})
			require.NoError(t, err)

			clock.t = issued.Add(tt.elapsed)
			_, err = m.VerifyToken(token)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	good, err := m.Issue(&models.User{ID: 7, Username: "carol", Email: "c@x.com"})
	require.NoError(t, err)

	other, err := NewHMACTokenManager("another-secret", time.Hour, testLogger(), WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue(&models.User{ID: 7, Username: "carol", Email: "c@x.com"})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &models.TokenClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "alg none", token: noneAlg},
		{name: "tampered payload", token: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
