package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/ward-portal/internal/booking"
	"github.com/wolfman30/ward-portal/internal/notifications"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// BuildNotificationStore returns the Redis inbox, seeded on first start, or an
// in-memory inbox holding the same seed.
func BuildNotificationStore(ctx context.Context, redisClient *redis.Client, logger *logging.Logger) notifications.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if redisClient == nil {
		return notifications.NewMemoryStore(notifications.Seed()...)
	}
	store := notifications.NewRedisStore(redisClient)
	if err := store.SeedIfEmpty(ctx, notifications.Seed()); err != nil {
		logger.Warn("failed to seed notification inbox", "error", err)
	}
	return store
}

// BuildBookingRepository stores bookings in Postgres when a pool is available.
func BuildBookingRepository(pool *pgxpool.Pool) booking.Repository {
	if pool == nil {
		return booking.NewInMemoryRepository()
	}
	return booking.NewPostgresRepository(pool)
}
