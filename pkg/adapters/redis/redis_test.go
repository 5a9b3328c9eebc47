package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/blueprint/pkg/adapters/redis"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/aretw0/blueprint/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client)
	ports.RunBlueprintCacheContract(t, cache, mr.FastForward)
}

func TestRedisCache_DefaultTTLAndPrefix(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("gym:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "s1", &ports.CacheEntry{Fingerprint: "f"}, 0))
	assert.True(t, mr.Exists("gym:cache:s1"))
	assert.Equal(t, time.Minute, mr.TTL("gym:cache:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := cache.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client)
	mr.Close()

	_, err := cache.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)

	err = cache.Set(context.Background(), "s1", &ports.CacheEntry{}, time.Second)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestRedisRoster_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunRosterContract(t, redis.NewRoster(client))
}

func TestRedisRoster_TTL(t *testing.T) {
	mr, client := setup(t)
	roster := redis.NewRoster(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, roster.SaveGroup(ctx, domain.GroupContext{SessionID: "s1"}))
	assert.True(t, mr.Exists("blueprint:session:s1"))
	assert.True(t, mr.Exists("blueprint:sessions"))

	mr.FastForward(2 * time.Second)
	_, err := roster.LoadGroup(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisRoster_Delete(t *testing.T) {
	_, client := setup(t)
	roster := redis.NewRoster(client)
	ctx := context.Background()

	require.NoError(t, roster.SaveGroup(ctx, domain.GroupContext{SessionID: "s1"}))
	require.NoError(t, roster.DeleteGroup(ctx, "s1"))

	ids, err := roster.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisRoster_Catalog(t *testing.T) {
	_, client := setup(t)
	roster := redis.NewRoster(client)
	ctx := context.Background()

	catalog := []domain.Exercise{{ID: "1", Name: "Squat", PrimaryMuscle: "quads", StrengthLevel: domain.LevelLow, ComplexityLevel: domain.LevelLow}}
	require.NoError(t, roster.SaveCatalog(ctx, "biz", catalog))

	got, err := roster.LoadCatalog(ctx, "biz")
	require.NoError(t, err)
	assert.Equal(t, catalog, got)

	none, err := roster.LoadCatalog(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "resource1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:resource1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:resource1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := setup(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker2.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	unlock2, err := locker.Lock(ctx, "k", 5*time.Second)
	require.NoError(t, err)

	// The expired holder must not release the new owner's lock.
	require.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("test:lock:k"))
	require.NoError(t, unlock2(ctx))
}
