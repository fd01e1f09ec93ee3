package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polychat/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users    string
	Chats    string
	Messages string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:    fmt.Sprintf("%susers", prefix),
		Chats:    fmt.Sprintf("%schats", prefix),
		Messages: fmt.Sprintf("%smessages", prefix),
	}
}

// CreateConnectionPool creates a pgx pool capped at maxConns connections.
//
// PgBouncer in transaction pooling mode (port 6543) does not support prepared
// statements, so on that port the pool switches to QueryExecModeCacheDescribe
// unless the connection string already chose a mode via default_query_exec_mode.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = 1

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx := GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

// NewStore wires every PostgreSQL repository onto one pool.
func NewStore(config *RepositoryConfig) *repositories.Store {
	return &repositories.Store{
		Users:    NewUserRepository(config),
		Chats:    NewChatRepository(config),
		Messages: NewMessageRepository(config),
		Tx:       NewTransactionManager(config.Pool, config.Logger),
		Close: func() error {
			config.Pool.Close()
			return nil
		},
		Ping: config.Pool.Ping,
	}
}
