package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canteenhq/canteen/internal/models"
)

const menuKey = "menu:all"

// MenuCache is a read-through cache for the full menu listing. A nil cache
// (or nil client) always misses, so handlers work without Redis.
type MenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	return &MenuCache{Client: client, TTL: ttl}
}

func (c *MenuCache) Get(ctx context.Context) ([]models.MenuItem, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, menuKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []models.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *MenuCache) Set(ctx context.Context, items []models.MenuItem) error {
	if c == nil || c.Client == nil {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuKey, raw, c.TTL).Err()
}

func (c *MenuCache) Invalidate(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Del(ctx, menuKey).Err()
}
