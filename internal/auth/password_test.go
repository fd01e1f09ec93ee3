package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"polychat/internal/config"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, config.BcryptCost, cost)

	ok, err := ComparePassword(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	ok, err := ComparePassword("plain-text", "plain-text")
	assert.Error(t, err)
	assert.False(t, ok)
}
