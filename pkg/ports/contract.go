package ports

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlueprintCacheContract runs a suite of tests to verify that a BlueprintCache
// implementation adheres to the defined interface contract.
// advance moves the cache's clock forward; pass nil to skip the expiry checks.
func RunBlueprintCacheContract(t *testing.T, cache BlueprintCache, advance func(time.Duration)) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405.000")

	entry := &CacheEntry{
		Blueprint: &domain.Blueprint{
			SessionID:          sessionID,
			TemplateType:       "full_body_bmf",
			ClientIDs:          []string{"a", "b"},
			ValidationWarnings: []domain.Warning{{Code: domain.WarnNoSharedCandidates, BlockID: "Round1", Message: "none"}},
		},
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ClientCount:  2,
		TemplateType: "full_body_bmf",
		Fingerprint:  "abc123",
	}

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, sessionID, entry, time.Minute))

		got, err := cache.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, entry.Fingerprint, got.Fingerprint)
		assert.Equal(t, entry.ClientCount, got.ClientCount)
		assert.Equal(t, entry.TemplateType, got.TemplateType)
		assert.True(t, entry.Timestamp.Equal(got.Timestamp))
		require.NotNil(t, got.Blueprint)
		assert.Equal(t, entry.Blueprint.ClientIDs, got.Blueprint.ClientIDs)
		assert.Equal(t, entry.Blueprint.ValidationWarnings, got.Blueprint.ValidationWarnings)
	})

	t.Run("Returned entries are independent", func(t *testing.T) {
		got, err := cache.Get(ctx, sessionID)
		require.NoError(t, err)
		got.Blueprint.ClientIDs[0] = "mutated"

		again, err := cache.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "a", again.Blueprint.ClientIDs[0])
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+sessionID)
		assert.True(t, errors.Is(err, domain.ErrCacheMiss))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, sessionID))
		_, err := cache.Get(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should miss")
		assert.NoError(t, cache.Delete(ctx, sessionID), "Delete is idempotent")
	})

	if advance == nil {
		return
	}

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, sessionID, entry, time.Second))
		advance(2 * time.Second)
		_, err := cache.Get(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

// RunRosterContract verifies a Roster implementation.
func RunRosterContract(t *testing.T, roster Roster) {
	ctx := context.Background()
	group := domain.GroupContext{
		SessionID:    "roster-contract",
		BusinessID:   "biz",
		TemplateType: "full_body_bmf",
		Clients: []domain.ClientContext{
			{ClientID: "a", StrengthCapacity: domain.LevelLow, MuscleTarget: []string{"chest"}},
			{ClientID: "b", StrengthCapacity: domain.LevelHigh},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, roster.SaveGroup(ctx, group))
		got, err := roster.LoadGroup(ctx, group.SessionID)
		require.NoError(t, err)
		assert.Equal(t, group.BusinessID, got.BusinessID)
		assert.Equal(t, group.ClientIDs(), got.ClientIDs())
		assert.Equal(t, []string{"chest"}, got.Clients[0].MuscleTarget)
	})

	t.Run("Load Missing", func(t *testing.T) {
		_, err := roster.LoadGroup(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Update Preferences", func(t *testing.T) {
		err := roster.UpdatePreferences(ctx, group.SessionID, "a", domain.Preferences{
			Intensity:   domain.IntensityHigh,
			AvoidJoints: []string{"knees"},
		})
		require.NoError(t, err)

		got, err := roster.LoadGroup(ctx, group.SessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.IntensityHigh, got.Clients[0].Intensity)
		assert.Equal(t, []string{"knees"}, got.Clients[0].AvoidJoints)
		assert.Equal(t, []string{"chest"}, got.Clients[0].MuscleTarget, "untouched fields survive")
	})

	t.Run("Update Unknown", func(t *testing.T) {
		err := roster.UpdatePreferences(ctx, group.SessionID, "zz", domain.Preferences{})
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
		err = roster.UpdatePreferences(ctx, "missing", "a", domain.Preferences{})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := group
		other.SessionID = "roster-contract-2"
		require.NoError(t, roster.SaveGroup(ctx, other))

		ids, err := roster.ListSessions(ctx)
		require.NoError(t, err)
		sort.Strings(ids)
		assert.Contains(t, ids, group.SessionID)
		assert.Contains(t, ids, other.SessionID)
	})
}
