package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/blueprint/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic retries of preference updates.
const maxTxRetries = 5

// Roster implements ports.Roster and ports.CatalogSource using Redis.
// Groups are stored as JSON and indexed in a sorted set scored by expiry.
type Roster struct {
	client *backend.Client
	settings
}

// NewRoster creates a roster from an existing client.
func NewRoster(client *backend.Client, opts ...Option) *Roster {
	return &Roster{
		client:   client,
		settings: newSettings(opts),
	}
}

func (r *Roster) key(sessionID string) string {
	return r.prefix + "session:" + sessionID
}

func (r *Roster) indexKey() string {
	return r.prefix + "sessions"
}

func (r *Roster) catalogKey(businessID string) string {
	return r.prefix + "catalog:" + businessID
}

// SaveGroup persists a group and indexes it.
func (r *Roster) SaveGroup(ctx context.Context, group domain.GroupContext) error {
	if group.SessionID == "" {
		return &domain.ValidationError{Key: "session_id", Reason: "required"}
	}
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		r.write(ctx, pipe, group.SessionID, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save group to redis: %w", err)
	}
	return nil
}

func (r *Roster) write(ctx context.Context, pipe backend.Pipeliner, sessionID string, data []byte) {
	pipe.Set(ctx, r.key(sessionID), data, r.ttl)

	// Score = expiry. Without a TTL the entry is kept until 2100-01-01.
	score := float64(time.Now().Add(r.ttl).Unix())
	if r.ttl == 0 {
		score = 4102444800
	}
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: score, Member: sessionID})
}

// LoadGroup retrieves a group.
func (r *Roster) LoadGroup(ctx context.Context, sessionID string) (domain.GroupContext, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.GroupContext{}, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
		}
		return domain.GroupContext{}, fmt.Errorf("failed to get group from redis: %w", err)
	}
	return decodeGroup(val)
}

func decodeGroup(data []byte) (domain.GroupContext, error) {
	var group domain.GroupContext
	if err := json.Unmarshal(data, &group); err != nil {
		return domain.GroupContext{}, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return group, nil
}

// UpdatePreferences merges prefs into the stored client using WATCH/MULTI,
// retrying when another writer changed the group in between.
func (r *Roster) UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	key := r.key(sessionID)

	update := func(tx *backend.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, backend.Nil) {
			return fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
		}
		if err != nil {
			return err
		}
		group, err := decodeGroup(val)
		if err != nil {
			return err
		}

		found := false
		for i, c := range group.Clients {
			if c.ClientID == clientID {
				group.Clients[i] = c.Apply(prefs)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("client %q in session %q: %w", clientID, sessionID, domain.ErrClientNotFound)
		}

		data, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("failed to marshal group: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			r.write(ctx, pipe, sessionID, data)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err := r.client.Watch(ctx, update, key)
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update preferences for %q: %w", sessionID, backend.TxFailedErr)
}

// ListSessions returns indexed sessions, pruning the expired ones first.
func (r *Roster) ListSessions(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := r.client.ZRemRangeByScore(ctx, r.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	sessions, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteGroup removes a group and its index entry.
func (r *Roster) DeleteGroup(ctx context.Context, sessionID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(sessionID))
	pipe.ZRem(ctx, r.indexKey(), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

// SaveCatalog stores a business catalog. Catalogs never expire.
func (r *Roster) SaveCatalog(ctx context.Context, businessID string, catalog []domain.Exercise) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return r.client.Set(ctx, r.catalogKey(businessID), data, 0).Err()
}

// LoadCatalog returns a business catalog; unknown businesses have none.
func (r *Roster) LoadCatalog(ctx context.Context, businessID string) ([]domain.Exercise, error) {
	val, err := r.client.Get(ctx, r.catalogKey(businessID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog from redis: %w", err)
	}
	var catalog []domain.Exercise
	if err := json.Unmarshal(val, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return catalog, nil
}
