package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.BlueprintCache using Redis.
// Backend failures are reported wrapped in domain.ErrCacheUnavailable.
type Cache struct {
	client *backend.Client
	settings
}

// New creates a cache with its own client.
func New(address, password string, db int, opts ...Option) *Cache {
	return NewFromClient(Dial(address, password, db), opts...)
}

// NewFromClient creates a cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	return &Cache{
		client:   client,
		settings: newSettings(opts),
	}
}

func (c *Cache) key(sessionID string) string {
	return c.prefix + "cache:" + sessionID
}

// Get retrieves an entry.
func (c *Cache) Get(ctx context.Context, sessionID string) (*ports.CacheEntry, error) {
	val, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrCacheUnavailable, sessionID, err)
	}

	var entry ports.CacheEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores an entry. A zero ttl falls back to the cache's WithTTL value.
func (c *Cache) Set(ctx context.Context, sessionID string, entry *ports.CacheEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, c.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrCacheUnavailable, sessionID, err)
	}
	return nil
}

// Delete removes an entry.
func (c *Cache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %w", domain.ErrCacheUnavailable, sessionID, err)
	}
	return nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
