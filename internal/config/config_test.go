package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HISTORY_WINDOW", "")
	t.Setenv("TEMPERATURE", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := Load()

	assert.Equal(t, DefaultHistoryWindow, cfg.HistoryWindow)
	assert.Equal(t, DefaultMaxOutputTokens, cfg.MaxOutputTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("HISTORY_WINDOW", "ten")

	cfg := Load()

	assert.Equal(t, DefaultHistoryWindow, cfg.HistoryWindow)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecret:       "x",
			TokenTTL:        time.Hour,
			HistoryWindow:   10,
			MaxOutputTokens: 500,
			Temperature:     0.7,
			DBMaxConns:      5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "zero window", mutate: func(c *Config) { c.HistoryWindow = 0 }, wantErr: "HISTORY_WINDOW"},
		{name: "hot temperature", mutate: func(c *Config) { c.Temperature = 3 }, wantErr: "TEMPERATURE"},
		{name: "no connections", mutate: func(c *Config) { c.DBMaxConns = 0 }, wantErr: "DB_MAX_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUsesPostgres(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"postgres://u:p@localhost:5432/db", true},
		{"postgresql://localhost/db", true},
		{"polychat.db", false},
		{":memory:", false},
	}
	for _, tt := range tests {
		c := &Config{DatabaseURL: tt.url}
		assert.Equal(t, tt.want, c.UsesPostgres(), tt.url)
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{"single", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"spaces after commas", "http://a, http://b ,http://c", []string{"http://a", "http://b", "http://c"}},
		{"blank entries", "http://a,, ,", []string{"http://a"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{CORSOrigins: tt.origins}
			assert.Equal(t, tt.want, c.AllowedOrigins())
		})
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"polychat-2025-01-01T00-00-00.000.log",
		"polychat-2025-01-02T00-00-00.000.log",
		"polychat-2025-01-03T00-00-00.000.log",
		"unrelated.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	remaining, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
	assert.NoFileExists(t, filepath.Join(dir, names[0]))
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
}
