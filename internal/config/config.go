package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage
	DatabaseURL string // postgres:// URL, or a SQLite file path
	TablePrefix string
	DBMaxConns  int32
	// Auth
	JWTSecret string
	TokenTTL  time.Duration
	// LLM Configuration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenRouterAPIKey string
	GeminiAPIKey     string
	AnthropicAPIKey  string
	DefaultModel     string
	DefaultLanguage  string
	HistoryWindow    int
	MaxOutputTokens  int
	Temperature      float64
	ProviderTimeout  time.Duration
	TranslateReplies bool
	// Rate limiting
	RedisURL            string
	RateLimitAuthPerMin int
	RateLimitAnonPerMin int
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "polychat.db"),
		TablePrefix: getEnv("TABLE_PREFIX", ""),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 5)),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", DefaultTokenTTL),
		// LLM Configuration
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:     getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
		DefaultLanguage:  strings.ToLower(getEnv("DEFAULT_LANGUAGE", "en")),
		HistoryWindow:    getEnvInt("HISTORY_WINDOW", DefaultHistoryWindow),
		MaxOutputTokens:  getEnvInt("MAX_OUTPUT_TOKENS", DefaultMaxOutputTokens),
		Temperature:      getEnvFloat("TEMPERATURE", DefaultTemperature),
		ProviderTimeout:  getEnvDuration("PROVIDER_TIMEOUT", 60*time.Second),
		TranslateReplies: getEnv("TRANSLATE_REPLIES", "true") == "true",
		// Rate limiting
		RedisURL:            getEnv("REDIS_URL", ""),
		RateLimitAuthPerMin: getEnvInt("RATE_LIMIT_AUTH_PER_MIN", 30),
		RateLimitAnonPerMin: getEnvInt("RATE_LIMIT_ANON_PER_MIN", 10),
		LogDir:              getEnv("LOG_DIR", ""),
		LogMaxFiles:         getEnvInt("LOG_MAX_FILES", 10),
	}
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.HistoryWindow <= 0 {
		errs = append(errs, errors.New("HISTORY_WINDOW must be positive"))
	}
	if c.MaxOutputTokens <= 0 {
		errs = append(errs, errors.New("MAX_OUTPUT_TOKENS must be positive"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("TEMPERATURE must be within [0,2], got %v", c.Temperature))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	return errors.Join(errs...)
}

// UsesPostgres reports whether DatabaseURL points at PostgreSQL rather than a SQLite file
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// AllowedOrigins splits CORSOrigins on commas, dropping blanks and surrounding spaces
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid %s=%q, using %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid %s=%q, using %v\n", key, value, defaultValue)
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid %s=%q, using %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}
