// Package bootstrap turns configuration into the portal's runtime
// dependencies, choosing in-memory stand-ins when a backing service is not
// configured.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/ward-portal/internal/config"
	"github.com/wolfman30/ward-portal/internal/tracking"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool connects to databaseURL, returning nil when it is blank
// or unreachable.
func BuildPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Warn("postgres pool not created", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("postgres not available", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildTrackingStore opens the document-status database, or serves the
// built-in sample records when none is configured.
func BuildTrackingStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) tracking.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || strings.TrimSpace(cfg.TrackingDatabaseURL) == "" {
		logger.Info("tracking database not configured; serving sample records")
		return tracking.NewMemoryStore()
	}
	store, err := tracking.OpenSQLStore(ctx, cfg.TrackingDatabaseURL)
	if err != nil {
		logger.Warn("tracking database unavailable; serving sample records", "error", err)
		return tracking.NewMemoryStore()
	}
	return store
}
