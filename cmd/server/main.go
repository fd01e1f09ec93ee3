package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"polychat/internal/auth"
	"polychat/internal/capabilities"
	"polychat/internal/config"
	"polychat/internal/handler"
	"polychat/internal/middleware"
	"polychat/internal/prompts"
	"polychat/internal/repository"
	"polychat/internal/service"
	serviceAuth "polychat/internal/service/auth"
	serviceChat "polychat/internal/service/chat"
	serviceConversation "polychat/internal/service/conversation"
	serviceLLM "polychat/internal/service/llm"
)

const version = "1.0.0"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"version", version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewHMACTokenManager(cfg.JWTSecret, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized", "providers", capabilityRegistry.GetAllProviders())

	promptCatalog, err := prompts.NewCatalog(cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load prompt catalog: %v", err)
	}

	providerRegistry, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	modelValidator := serviceLLM.NewModelValidator(capabilityRegistry)
	if _, err := modelValidator.Validate(cfg.DefaultModel); err != nil {
		log.Fatalf("DEFAULT_MODEL %q is not on the allow-list: %v", cfg.DefaultModel, err)
	}

	generator := serviceLLM.NewResponseGenerator(providerRegistry, promptCatalog, serviceLLM.GeneratorConfig{
		MaxTokens:        cfg.MaxOutputTokens,
		Temperature:      cfg.Temperature,
		Timeout:          cfg.ProviderTimeout,
		TranslateReplies: cfg.TranslateReplies,
		SourceLanguage:   config.SourceLanguage,
	}, logger)

	// Services
	authService := serviceAuth.NewAuthService(store.Users, tokens, logger)
	chatAuthorizer := serviceAuth.NewChatAuthorizer(store.Chats)
	chatService := serviceChat.NewService(store.Chats, chatAuthorizer, logger)
	conversationService := serviceConversation.NewService(
		store.Messages,
		store.Chats,
		store.Tx,
		chatAuthorizer,
		modelValidator,
		promptCatalog,
		generator,
		serviceConversation.Defaults{
			Model:         cfg.DefaultModel,
			Language:      promptCatalog.DefaultLanguage(),
			HistoryWindow: cfg.HistoryWindow,
		},
		logger,
	)
	userPrefsService := service.NewUserPreferencesService(
		store.Users,
		modelValidator,
		promptCatalog,
		cfg.DefaultModel,
		promptCatalog.DefaultLanguage(),
		logger,
	)

	logger.Info("services initialized")

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	router := handler.NewRouter(handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, logger),
		Chat:        handler.NewChatHandler(chatService, logger),
		Message:     handler.NewMessageHandler(conversationService, logger),
		Preferences: handler.NewUserPreferencesHandler(userPrefsService, logger),
		Catalog:     handler.NewCatalogHandler(capabilityRegistry, promptCatalog, providerRegistry, cfg.DefaultModel, logger),
		Health:      handler.NewHealthHandler(store.Ping, version, logger),
	}, authService, handler.RateLimits{
		Limiter:    limiter,
		AuthPerMin: cfg.RateLimitAuthPerMin,
		AnonPerMin: cfg.RateLimitAnonPerMin,
	}, logger)

	// CORS wraps everything so pre-flight requests never reach auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-Request-Id"},
		AllowCredentials: true,
	})

	// Write timeout covers the provider call plus a possible translation call
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// newLimiter uses Redis when REDIS_URL is set so every instance shares one budget.
// An unreachable Redis falls back to the in-process limiter.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func()) {
	if cfg.RedisURL != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("rate limiter using redis")
			return middleware.NewRedisLimiter(client, "polychat:ratelimit"), func() { _ = client.Close() }
		}
		logger.Warn("redis unavailable, using in-process rate limiter", "error", err)
	}
	return middleware.NewMemoryLimiter(), func() {}
}
