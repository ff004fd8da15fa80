package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-directory/internal/config"
	"github.com/spec-kit/shop-directory/internal/docstore"
	"github.com/spec-kit/shop-directory/internal/repository"
)

// OpenStore builds the document store selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		db, err := NewMongoDatabase(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		store := docstore.NewMongoStore(db)
		if cfg.Mongo.EnsureIndexes {
			if err := store.EnsureIndexes(ctx, repository.Indexes()); err != nil {
				_ = store.Close(context.Background())
				return nil, err
			}
		}
		return store, nil
	case config.StoreDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pool, MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return docstore.NewPostgresStore(pool), nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
