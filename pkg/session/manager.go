package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	roster ports.Roster

	mu          sync.Mutex            // Guards locks and generations
	locks       map[string]*lockEntry // Active locks
	generations map[string]uint64

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Session Manager over the given roster.
func NewManager(roster ports.Roster, opts ...Option) *Manager {
	m := &Manager{
		roster:      roster,
		locks:       make(map[string]*lockEntry),
		generations: make(map[string]uint64),
		lockTTL:     DefaultLockTTL,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Generation returns the session's current generation. Unknown sessions are at 0.
func (m *Manager) Generation(sessionID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[sessionID]
}

// Bump advances the session's generation and returns the new value.
func (m *Manager) Bump(sessionID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[sessionID]++
	return m.generations[sessionID]
}

// Forget drops the session's generation counter.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.generations, sessionID)
}

// Load retrieves a roster.
func (m *Manager) Load(ctx context.Context, sessionID string) (domain.GroupContext, error) {
	var group domain.GroupContext
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		group, err = m.roster.LoadGroup(ctx, sessionID)
		return err
	})
	return group, err
}

// Save stores a roster and bumps its generation.
func (m *Manager) Save(ctx context.Context, group domain.GroupContext) error {
	return m.WithLock(ctx, group.SessionID, func(ctx context.Context) error {
		if err := m.roster.SaveGroup(ctx, group); err != nil {
			return err
		}
		m.Bump(group.SessionID)
		return nil
	})
}

// UpdatePreferences applies a preference change and bumps the generation.
// then runs after the update while the session lock is still held.
func (m *Manager) UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences, then func(context.Context) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if err := m.roster.UpdatePreferences(ctx, sessionID, clientID, prefs); err != nil {
			return err
		}
		m.Bump(sessionID)
		if then != nil {
			return then(ctx)
		}
		return nil
	})
}

// List delegates to the roster.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.roster.ListSessions(ctx)
}

// Roster returns the underlying roster.
func (m *Manager) Roster() ports.Roster {
	return m.roster
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
