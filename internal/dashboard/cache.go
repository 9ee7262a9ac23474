package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps rendered snapshots in Redis under a short TTL. A stale
// dashboard is acceptable; a slow one is not.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(tenantID int64) string {
	return fmt.Sprintf("dashboard:snapshot:%d", tenantID)
}

// Get returns the cached snapshot if present.
func (c *Cache) Get(ctx context.Context, tenantID int64) (Snapshot, bool) {
	if c == nil || c.client == nil {
		return Snapshot{}, false
	}
	payload, err := c.client.Get(ctx, cacheKey(tenantID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			// Cache trouble is not a dashboard outage.
			return Snapshot{}, false
		}
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Set stores a snapshot.
func (c *Cache) Set(ctx context.Context, tenantID int64, snap Snapshot) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(tenantID), payload, c.ttl).Err()
}
