package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresPool(databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Read-only dashboard traffic: one request reads its datasets sequentially.
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	config.ConnConfig.RuntimeParams["application_name"] = "modreview-dashboard"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RequiredTables must exist for a dashboard to be built at all. The other
// activity tables only feed optional sections.
var RequiredTables = []string{"users", "sessions", "videos"}

var OptionalTables = []string{"video_keys", "inactivity", "video_speeds", "queues"}

// VerifySchema checks that the activity tables exist. It never creates or
// alters anything. Missing optional tables are returned so the caller can
// log them.
func VerifySchema(ctx context.Context, pool *pgxpool.Pool) (missing []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists := func(table string) (bool, error) {
		var ok bool
		err := pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&ok)
		if err != nil {
			return false, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		return ok, nil
	}

	for _, table := range RequiredTables {
		ok, err := exists(table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("required table %s is missing", table)
		}
	}

	for _, table := range OptionalTables {
		ok, err := exists(table)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, table)
		}
	}

	return missing, nil
}
