package database

import (
	"context"
	"fmt"

	"modreview-dashboard/internal/config"
	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/repository"
	"modreview-dashboard/internal/repository/sqlite"
)

// OpenStore connects the backend named by cfg.DatabaseURL and, when a Redis
// URL is configured, puts the dataset cache in front of it. The returned
// close function releases every connection that was opened.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	var (
		store   repository.Store
		closers []func()
	)

	switch cfg.Driver() {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, config.SQLitePath(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		store = s
		closers = append(closers, func() { s.Close() })
		logging.Info().Str("driver", config.DriverSQLite).Msg("✓ SQLite activity store opened")

	default:
		pool, err := NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		closers = append(closers, pool.Close)

		missing, err := VerifySchema(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if len(missing) > 0 {
			logging.Warn().Strs("tables", missing).Msg("optional activity tables missing, their sections will be unavailable")
		}
		store = repository.NewActivityRepo(pool)
		logging.Info().Str("driver", config.DriverPostgres).Msg("✓ PostgreSQL connected")
	}

	if cfg.RedisURL != "" {
		rdb, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("✗ Redis unavailable, dataset cache disabled")
		} else {
			closers = append(closers, func() { rdb.Close() })
			store = repository.NewCachedStore(store, rdb, cfg.CacheTTL)
			logging.Info().Dur("ttl", cfg.CacheTTL).Msg("✓ Redis dataset cache enabled")
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return store, closeAll, nil
}
