package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rotaops/rota-backend/config"
)

// OpenRedis connects to redis for the roster cache. The cache is optional:
// a failed ping returns the client anyway and the caller decides whether to
// run without it.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		log.Printf("[bootstrap] redis ping failed, cache degraded: %v", err)
	}

	return client
}
