package repository

import (
	"context"
	"log/slog"

	"polychat/internal/config"
	"polychat/internal/domain/repositories"
	"polychat/internal/repository/postgres"
	"polychat/internal/repository/sqlite"
)

// Open picks the backend from the DATABASE_URL scheme and migrates it.
// postgres:// and postgresql:// URLs use pgx; anything else is a SQLite file path.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, error) {
	if cfg.UsesPostgres() {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		if err := postgres.Migrate(ctx, repoConfig); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info("database connected", "driver", "postgres", "max_conns", cfg.DBMaxConns)
		return postgres.NewStore(repoConfig), nil
	}

	db, err := sqlite.Open(sqlite.Config{
		Path:        cfg.DatabaseURL,
		TablePrefix: cfg.TablePrefix,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("database connected", "driver", "sqlite", "path", cfg.DatabaseURL)
	return sqlite.NewStore(db), nil
}
