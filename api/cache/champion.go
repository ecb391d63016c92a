package cache

import (
	"context"
	"fmt"
	catalogfetcher "gridstats/fetcher/data/catalog"
	"gridstats/pkg/redis"
	"sync"
	"time"
)

const (
	championMemoryTTL = 30 * time.Minute
	championRedisTTL  = 24 * time.Hour
	championRedisKey  = "catalog:champions"
)

// ChampionCache layers the champion content catalog: memory first, Redis
// second, the central catalog as the source of truth.
type ChampionCache struct {
	redis   *redis.RedisClient
	catalog *catalogfetcher.Fetcher
	mu      sync.RWMutex
	memory  []catalogfetcher.Champion
	loaded  time.Time
}

// ChampionCacheDeps is the dependency list for the champion cache.
// Redis may be nil, the cache then works memory-only.
type ChampionCacheDeps struct {
	Redis   *redis.RedisClient
	Catalog *catalogfetcher.Fetcher
}

// NewChampionCache creates a champion cache.
func NewChampionCache(deps *ChampionCacheDeps) *ChampionCache {
	return &ChampionCache{
		redis:   deps.Redis,
		catalog: deps.Catalog,
	}
}

// Champions returns the catalog in its stable catalog order.
func (c *ChampionCache) Champions(ctx context.Context) ([]catalogfetcher.Champion, error) {
	c.mu.RLock()
	if c.memory != nil && time.Since(c.loaded) < championMemoryTTL {
		champions := c.memory
		c.mu.RUnlock()
		return champions, nil
	}
	c.mu.RUnlock()

	if c.redis != nil {
		var champions []catalogfetcher.Champion
		if err := c.redis.GetJSON(ctx, championRedisKey, &champions); err == nil && len(champions) > 0 {
			c.store(champions)
			return champions, nil
		}
	}

	champions, err := c.catalog.Champions(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't load the champion catalog: %w", err)
	}

	c.store(champions)
	if c.redis != nil {
		// Best effort, the catalog stays usable without Redis.
		c.redis.SetJSON(ctx, championRedisKey, champions, championRedisTTL)
	}

	return champions, nil
}

// store refreshes the in-memory copy.
func (c *ChampionCache) store(champions []catalogfetcher.Champion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = champions
	c.loaded = time.Now()
}
