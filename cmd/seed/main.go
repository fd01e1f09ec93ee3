package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"polychat/internal/auth"
	"polychat/internal/config"
	"polychat/internal/domain"
	"polychat/internal/domain/models"
	"polychat/internal/domain/repositories"
	"polychat/internal/domain/services"
	"polychat/internal/repository"
	serviceAuth "polychat/internal/service/auth"
)

// seedTurn is one stored message of a seed conversation
type seedTurn struct {
	sender models.Sender
	text   string
}

type seedChat struct {
	title string
	turns []seedTurn
}

func main() {
	username := flag.String("username", "demo", "Demo account username")
	email := flag.String("email", "demo@example.com", "Demo account email")
	password := flag.String("password", "demo123", "Demo account password")
	clearData := flag.Bool("clear-data", false, "Delete the demo account's chats before seeding")
	anonymous := flag.Bool("anonymous", true, "Also create an anonymous chat")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("BLOCKED: --clear-data is not allowed in the prod environment")
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewHMACTokenManager(cfg.JWTSecret, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}
	authService := serviceAuth.NewAuthService(store.Users, tokens, logger)

	account, err := ensureAccount(ctx, authService, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to prepare demo account: %v", err)
	}
	log.Printf("Demo account ready: %s (id %d)", account.User.Username, account.User.ID)

	owner := models.Authenticated(account.User)

	if *clearData {
		removed, err := clearOwnedChats(ctx, store, owner)
		if err != nil {
			log.Fatalf("Failed to clear chats: %v", err)
		}
		log.Printf("Removed %d chats", removed)
	}

	for _, c := range seedChats() {
		chat, err := createChat(ctx, store, owner, c)
		if err != nil {
			log.Fatalf("Failed to seed chat %q: %v", c.title, err)
		}
		log.Printf("Created chat %d: %s (%d messages)", chat.ID, chat.Title, len(c.turns))
	}

	if *anonymous {
		chat, err := createChat(ctx, store, models.Anonymous(), seedChat{
			title: "Public demo",
			turns: []seedTurn{
				{models.SenderUser, "Hi! What can you help me with?"},
				{models.SenderAI, "I can answer questions in ten languages. Ask me anything."},
			},
		})
		if err != nil {
			log.Fatalf("Failed to seed anonymous chat: %v", err)
		}
		log.Printf("Created anonymous chat %d", chat.ID)
	}

	log.Printf("Bearer token for %s:\n%s", account.User.Username, account.Token)
	log.Println("Seeding complete")
}

// ensureAccount registers the demo user, or logs in when it already exists
func ensureAccount(ctx context.Context, authService services.AuthService, username, email, password string) (*services.AuthResult, error) {
	result, err := authService.Register(ctx, &services.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}
	return authService.Login(ctx, &services.LoginRequest{Username: username, Password: password})
}

// clearOwnedChats deletes the caller's own chats; anonymous chats are left alone
func clearOwnedChats(ctx context.Context, store *repositories.Store, owner models.Caller) (int, error) {
	userID, _ := owner.UserID()
	chats, err := store.Chats.ListVisibleChats(ctx, &userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, chat := range chats {
		if !chat.CanMutate(owner) {
			continue
		}
		if err := store.Chats.DeleteChat(ctx, chat.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// createChat stores a chat and its turns in one transaction, one second apart
func createChat(ctx context.Context, store *repositories.Store, owner models.Caller, c seedChat) (*models.Chat, error) {
	start := time.Now().UTC().Add(-time.Duration(len(c.turns)) * time.Second)
	chat := &models.Chat{
		Title:       c.title,
		UserID:      owner.OwnerID(),
		IsAnonymous: owner.IsAnonymous(),
		CreatedAt:   start,
		UpdatedAt:   start,
	}

	err := store.Tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := store.Chats.CreateChat(ctx, chat); err != nil {
			return err
		}
		at := start
		for _, turn := range c.turns {
			at = at.Add(time.Second)
			msg := &models.Message{ChatID: chat.ID, Text: turn.text, Sender: turn.sender, CreatedAt: at}
			if err := store.Messages.CreateMessage(ctx, msg); err != nil {
				return err
			}
		}
		return store.Chats.TouchChat(ctx, chat.ID, at)
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func seedChats() []seedChat {
	return []seedChat{
		{
			title: "Weekend in Istanbul",
			turns: []seedTurn{
				{models.SenderUser, "I have two days in Istanbul. Where should I start?"},
				{models.SenderAI, "Start in Sultanahmet: Hagia Sophia, the Blue Mosque and the Basilica Cistern are all within walking distance."},
				{models.SenderUser, "And the second day?"},
				{models.SenderAI, "Take a Bosphorus ferry in the morning, then explore Karaköy and Galata in the afternoon."},
			},
		},
		{
			title: "Deutsch üben",
			turns: []seedTurn{
				{models.SenderUser, "Kannst du mir helfen, mein Deutsch zu verbessern?"},
				{models.SenderAI, "Natürlich! Erzähl mir zuerst, was du am Wochenende gemacht hast."},
			},
		},
	}
}
