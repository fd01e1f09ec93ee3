package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"polychat/internal/domain/repositories"
)

// Config holds DB configuration
type Config struct {
	Path        string // file path or ":memory:"
	TablePrefix string
	LogLevel    logger.LogLevel
	Logger      *slog.Logger
}

// Open opens a SQLite DB with foreign keys enforced and runs migrations.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=ON", cfg.Path)
	if !strings.Contains(cfg.Path, ":memory:") {
		dsn += "&_journal_mode=WAL"
	}

	gormLogger := logger.New(
		slogWriter{logger: cfg.Logger},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		NamingStrategy: schema.NamingStrategy{TablePrefix: cfg.TablePrefix},
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection avoids "database is locked" and keeps an
	// in-memory database alive for the pool's lifetime
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// migrate runs all automigrations. Keep the model list in one place.
// Order matters: referenced tables first.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Chat{},
		&Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewStore wires every SQLite repository onto one handle.
func NewStore(db *gorm.DB) *repositories.Store {
	return &repositories.Store{
		Users:    NewUserRepository(db),
		Chats:    NewChatRepository(db),
		Messages: NewMessageRepository(db),
		Tx:       NewTransactionManager(db),
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// slogWriter satisfies the GORM logger writer but delegates to slog
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Debug(fmt.Sprintf(format, args...), "component", "gorm")
}

// OpenMemory opens a private in-memory database, for tests and throwaway runs.
func OpenMemory() (*repositories.Store, error) {
	db, err := Open(Config{Path: ":memory:", LogLevel: logger.Silent})
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}
