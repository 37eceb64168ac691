// Package storage holds the key-value backends the cart is persisted to.
package storage

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

// ErrNotFound is returned by Get for a key that was never written.
var ErrNotFound = cart.ErrNoData

// Open builds the store selected by cfg.Driver. The returned close func
// releases whatever connection the store holds.
func Open(ctx context.Context, cfg config.Store, logger *zap.Logger) (cart.KV, func() error, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		logger.Info("cart store: memory")
		return NewMemoryStore(), func() error { return nil }, nil

	case config.StoreSQLite, "":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("cart store: sqlite", zap.String("path", cfg.SQLitePath))
		return s, s.Close, nil

	case config.StoreRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("cart store: redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB), zap.Duration("ttl", cfg.RedisTTL))
		return s, s.Close, nil

	case config.StorePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("cart store: postgres")
		return NewPostgresStore(pool), func() error { pool.Close(); return nil }, nil
	}
	return nil, nil, errors.Errorf("unknown cart store %q", cfg.Driver)
}
