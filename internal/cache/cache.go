package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"metaseek/internal/model"
)

// Cache provides Redis-backed caching for scraped search result pages.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a Cache.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Get retrieves the cached result set for the given engine/query/page
// combination. Returns the set and true on a hit, or nil and false on a
// miss or any decoding problem.
func (c *Cache) Get(ctx context.Context, engine, query string, page uint32) (*model.ResultSet, bool) {
	key := buildKey(engine, query, page)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	set := model.NewResultSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, false
	}

	return set, true
}

// Set stores a result set in the cache with the configured TTL.
func (c *Cache) Set(ctx context.Context, engine, query string, page uint32, set *model.ResultSet) error {
	key := buildKey(engine, query, page)

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func buildKey(engine, query string, page uint32) string {
	raw := fmt.Sprintf("%s:%s:%d", strings.ToLower(engine), strings.ToLower(query), page)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("metaseek:%s:%x", strings.ToLower(engine), hash[:8])
}
