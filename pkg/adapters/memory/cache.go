package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
)

type cached struct {
	data      []byte
	expiresAt time.Time
}

// Cache implements ports.BlueprintCache in memory.
// Entries are stored serialized, so callers never share state with the cache.
// Safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	data map[string]cached
	now  func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now, mostly for expiry tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		data: make(map[string]cached),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live entry for a session.
func (c *Cache) Get(ctx context.Context, sessionID string) (*ports.CacheEntry, error) {
	c.mu.RLock()
	item, ok := c.data[sessionID]
	c.mu.RUnlock()

	if !ok || c.expired(item) {
		return nil, domain.ErrCacheMiss
	}

	var entry ports.CacheEntry
	if err := json.Unmarshal(item.data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores an entry. A zero ttl never expires.
func (c *Cache) Set(ctx context.Context, sessionID string, entry *ports.CacheEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	item := cached{data: data}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[sessionID] = item
	return nil
}

// Delete removes an entry.
func (c *Cache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, sessionID)
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for id, item := range c.data {
		if c.expired(item) {
			delete(c.data, id)
			n++
		}
	}
	return n
}

// Len counts stored entries, expired ones included until purged.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *Cache) expired(item cached) bool {
	return !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt)
}
