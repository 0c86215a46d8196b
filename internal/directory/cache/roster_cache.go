package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rotaops/rota-backend/internal/directory/domain"
)

const (
	rosterKey = "dir:roster"
	rosterTTL = 5 * time.Minute
)

// RosterCache keeps the roster aggregation in Redis so repeated directory
// listings skip the store. Cache failures are logged and degrade to a miss;
// the cache never fails a request.
type RosterCache struct {
	client *redis.Client
}

func NewRosterCache(client *redis.Client) *RosterCache {
	return &RosterCache{client: client}
}

// Get returns the cached roster and whether it was present.
func (c *RosterCache) Get(ctx context.Context) ([]domain.User, bool) {
	data, err := c.client.Get(ctx, rosterKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[dircache] get: %v", err)
		}
		return nil, false
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		log.Printf("[dircache] unmarshal: %v", err)
		return nil, false
	}
	return users, true
}

// Set stores the roster with a short TTL.
func (c *RosterCache) Set(ctx context.Context, users []domain.User) {
	data, err := json.Marshal(users)
	if err != nil {
		log.Printf("[dircache] marshal: %v", err)
		return
	}
	if err := c.client.Set(ctx, rosterKey, data, rosterTTL).Err(); err != nil {
		log.Printf("[dircache] set: %v", err)
	}
}

// Invalidate drops the cached roster. Called after every directory
// mutation.
func (c *RosterCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, rosterKey).Err(); err != nil {
		log.Printf("[dircache] invalidate: %v", err)
	}
}
