package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/config"
	"github.com/steemit/citygroups/pkg/logging"
)

const (
	keyPrefix     = "citygroups"
	approvedKey   = "listings:approved"
	generationKey = "listings:approved:generation"
)

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = errors.New("cache is disabled")
)

// Cache wraps Redis client
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client. It returns nil, nil when Redis is not configured.
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing Redis client
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) namespaceKey(key string) string {
	return keyPrefix + ":" + key
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if !c.enabled() {
		return "", ErrCacheDisabled
	}
	return c.client.Get(ctx, c.namespaceKey(key)).Result()
}

// Set sets a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Set(ctx, c.namespaceKey(key), value, ttl).Err()
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Del(ctx, c.namespaceKey(key)).Err()
}

func approvedKeyFor(generation int64) string {
	return fmt.Sprintf("%s:%d", approvedKey, generation)
}

// ApprovedGeneration returns the current approved-set generation, zero
// until the first invalidation
func (c *Cache) ApprovedGeneration(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, ErrCacheDisabled
	}
	gen, err := c.client.Get(ctx, c.namespaceKey(generationKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetApproved returns the approved set cached for the current generation,
// or nil on a miss. A disabled cache always misses.
func (c *Cache) GetApproved(ctx context.Context) ([]models.CommunityListing, int64, error) {
	if !c.enabled() {
		return nil, 0, nil
	}
	gen, err := c.ApprovedGeneration(ctx)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.Get(ctx, approvedKeyFor(gen))
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var listings []models.CommunityListing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		// Unreadable entry, drop it so the next read repopulates
		_ = c.Delete(ctx, approvedKeyFor(gen))
		return nil, 0, fmt.Errorf("failed to decode approved listings: %w", err)
	}
	if listings == nil {
		listings = []models.CommunityListing{}
	}
	return listings, gen, nil
}

// SetApproved caches the approved set under the given generation
func (c *Cache) SetApproved(ctx context.Context, generation int64, listings []models.CommunityListing, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode approved listings: %w", err)
	}
	return c.Set(ctx, approvedKeyFor(generation), data, ttl)
}

// InvalidateApproved advances the generation. Entries of older generations
// are never read again and expire with their TTL.
func (c *Cache) InvalidateApproved(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, c.namespaceKey(generationKey)).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if !c.enabled() {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
