package ports

import (
	"context"
	"time"

	"github.com/aretw0/blueprint/pkg/domain"
)

// CacheEntry is what the service stores per session.
type CacheEntry struct {
	Blueprint    *domain.Blueprint `json:"blueprint"`
	Timestamp    time.Time         `json:"timestamp"`
	ClientCount  int               `json:"client_count"`
	TemplateType string            `json:"template_type"`

	// Fingerprint identifies the roster the blueprint was computed from.
	Fingerprint string `json:"fingerprint"`
}

// BlueprintCache stores generated blueprints for a short time.
type BlueprintCache interface {
	// Get returns the entry for a session.
	// Returns domain.ErrCacheMiss if there is none (or it expired).
	Get(ctx context.Context, sessionID string) (*CacheEntry, error)

	// Set stores an entry. A zero ttl means no expiration.
	Set(ctx context.Context, sessionID string, entry *CacheEntry, ttl time.Duration) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, sessionID string) error
}
