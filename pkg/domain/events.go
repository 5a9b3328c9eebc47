package domain

import (
	"context"
	"time"
)

// GenerationEvent describes one finished generation request.
type GenerationEvent struct {
	SessionID    string        `json:"session_id"`
	TemplateType string        `json:"template_type"`
	Clients      int           `json:"clients"`
	Cached       bool          `json:"cached"`
	Shared       bool          `json:"shared"` // answered by another in-flight call
	Duration     time.Duration `json:"duration"`
	Warnings     []Warning     `json:"warnings,omitempty"`
	Err          error         `json:"-"`
}

// CacheResult is the outcome of a cache lookup.
type CacheResult string

const (
	CacheHit   CacheResult = "hit"
	CacheMiss  CacheResult = "miss"
	CacheStale CacheResult = "stale"
	CacheError CacheResult = "error"
)

// CacheEvent describes one cache lookup.
type CacheEvent struct {
	SessionID string
	Result    CacheResult
}

// LifecycleHooks defines callbacks for service observability.
// Nil hooks are skipped. Hooks run on the caller's goroutine and must not block.
type LifecycleHooks struct {
	OnGenerate   func(context.Context, *GenerationEvent)
	OnCache      func(context.Context, *CacheEvent)
	OnInvalidate func(ctx context.Context, sessionID string)
}
