package repository

import (
	"context"
	"errors"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/metrics"
	"modreview-dashboard/internal/models"
)

const cachePrefix = "modreview:"

// CachedStore keeps a short-lived Redis copy of each dataset in front of
// another Store. Cache failures are logged and the underlying store is read
// instead; they never fail a request. Ping always reaches the store.
type CachedStore struct {
	next Store
	rdb  Cache
	ttl  time.Duration
}

// Cache is the part of the Redis client the store needs.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func NewCachedStore(next Store, rdb Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

var _ Store = (*CachedStore)(nil)

func (c *CachedStore) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

func (c *CachedStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return cached(ctx, c, "users", "users", c.next.ListUsers)
}

func (c *CachedStore) ListSessions(ctx context.Context, username string) ([]models.Session, error) {
	return cached(ctx, c, "sessions", "sessions:"+username, func(ctx context.Context) ([]models.Session, error) {
		return c.next.ListSessions(ctx, username)
	})
}

func (c *CachedStore) ListVideos(ctx context.Context) ([]models.VideoRow, error) {
	return cached(ctx, c, "videos", "videos", c.next.ListVideos)
}

func (c *CachedStore) ListIdleEvents(ctx context.Context) ([]models.IdleRow, error) {
	return cached(ctx, c, "idle", "idle", c.next.ListIdleEvents)
}

func (c *CachedStore) ListSpeeds(ctx context.Context) ([]models.SpeedRow, error) {
	return cached(ctx, c, "speeds", "speeds", c.next.ListSpeeds)
}

func (c *CachedStore) ListQueues(ctx context.Context) ([]models.QueueRow, error) {
	return cached(ctx, c, "queues", "queues", c.next.ListQueues)
}

func cached[T any](ctx context.Context, c *CachedStore, dataset, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := cachePrefix + name

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rows []T
		if err := gojson.Unmarshal(raw, &rows); err == nil {
			metrics.CacheHits.WithLabelValues(dataset).Inc()
			return rows, nil
		}
		logging.Ctx(ctx).Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	metrics.CacheMisses.WithLabelValues(dataset).Inc()

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := gojson.Marshal(rows); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return rows, nil
}
