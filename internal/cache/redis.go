package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/xidui/funba/internal/metrics"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

const (
	playerKeyPrefix = "funba:player:"
	playerKeyTTL    = 24 * time.Hour
)

// RedisCache remembers which player ids are already present in the store,
// so concurrent backfill workers skip redundant stub lookups. All methods
// degrade gracefully: a cache error reads as a miss.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", client.Options().Addr).Msg("Connected to Redis")
	return &RedisCache{client: client}, nil
}

// PlayerKnown reports whether the player id was recently confirmed present.
func (c *RedisCache) PlayerKnown(ctx context.Context, playerID string) bool {
	if c == nil {
		return false
	}

	n, err := c.client.Exists(ctx, playerKeyPrefix+playerID).Result()
	if err != nil {
		log.Debug().Err(err).Str("player_id", playerID).Msg("Player cache lookup failed")
		metrics.StubCacheMissesTotal.Inc()
		return false
	}

	if n > 0 {
		metrics.StubCacheHitsTotal.Inc()
		return true
	}
	metrics.StubCacheMissesTotal.Inc()
	return false
}

// MarkPlayerKnown records that the player id exists in the store.
func (c *RedisCache) MarkPlayerKnown(ctx context.Context, playerID string) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, playerKeyPrefix+playerID, "1", playerKeyTTL).Err(); err != nil {
		log.Debug().Err(err).Str("player_id", playerID).Msg("Player cache set failed")
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
