package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Roster implements ports.Roster and ports.CatalogSource in memory.
// Safe for concurrent use.
type Roster struct {
	mu       sync.RWMutex
	groups   map[string]domain.GroupContext
	catalogs map[string][]domain.Exercise
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		groups:   make(map[string]domain.GroupContext),
		catalogs: make(map[string][]domain.Exercise),
	}
}

// SaveGroup stores a copy of the group.
func (r *Roster) SaveGroup(ctx context.Context, group domain.GroupContext) error {
	if group.SessionID == "" {
		return &domain.ValidationError{Key: "session_id", Reason: "required"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[group.SessionID] = group.Clone()
	return nil
}

// LoadGroup returns a copy of the stored group.
func (r *Roster) LoadGroup(ctx context.Context, sessionID string) (domain.GroupContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[sessionID]
	if !ok {
		return domain.GroupContext{}, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	return group.Clone(), nil
}

// UpdatePreferences merges prefs into the stored client.
func (r *Roster) UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[sessionID]
	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	for i, c := range group.Clients {
		if c.ClientID == clientID {
			group.Clients[i] = c.Apply(prefs)
			return nil
		}
	}
	return fmt.Errorf("client %q in session %q: %w", clientID, sessionID, domain.ErrClientNotFound)
}

// ListSessions returns the stored session IDs, sorted.
func (r *Roster) ListSessions(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// SetCatalog replaces the catalog of a business.
func (r *Roster) SetCatalog(businessID string, catalog []domain.Exercise) {
	cp := make([]domain.Exercise, len(catalog))
	for i, e := range catalog {
		cp[i] = e.Clone()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[businessID] = cp
}

// SaveCatalog is SetCatalog with the error-returning signature of the other rosters.
func (r *Roster) SaveCatalog(ctx context.Context, businessID string, catalog []domain.Exercise) error {
	r.SetCatalog(businessID, catalog)
	return nil
}

// LoadCatalog returns a copy of the business's catalog.
// An unknown business has an empty catalog.
func (r *Roster) LoadCatalog(ctx context.Context, businessID string) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.catalogs[businessID]
	out := make([]domain.Exercise, len(src))
	for i, e := range src {
		out[i] = e.Clone()
	}
	return out, nil
}
