package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPathCache(t *testing.T) (*redisPathCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := newRedisPathCache(client, time.Minute, "")
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestPathCacheRoundTrip(t *testing.T) {
	c, mr := setupPathCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	rec := PathRecord{StopIDs: []int{1, 5, 4, 2, 6}, DistanceKm: 3.2, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, c.Set(ctx, 1, 6, rec))

	assert.True(t, mr.Exists("transit_path:1:6"))
	assert.Equal(t, time.Minute, mr.TTL("transit_path:1:6"))

	got, ok, err := c.Get(ctx, 1, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.StopIDs, got.StopIDs)
	assert.InDelta(t, rec.DistanceKm, got.DistanceKm, 1e-9)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))

	raw, err := mr.Get("transit_path:1:6")
	require.NoError(t, err)
	assert.Contains(t, raw, `"stops":[1,5,4,2,6]`)
	assert.Contains(t, raw, `"distance_km":3.2`)
}

func TestPrefixForScopesByDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	newCache := func(dbPath string) *redisPathCache {
		c := newRedisPathCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, PrefixFor(dbPath))
		t.Cleanup(func() { c.Close() })
		return c
	}
	city := newCache("/srv/transit/city.db")
	suburbs := newCache("/srv/transit/suburbs.db")

	assert.Equal(t, PrefixFor("/srv/transit/city.db"), PrefixFor("/srv/transit/city.db"))
	assert.NotEqual(t, PrefixFor("/srv/transit/city.db"), PrefixFor("/srv/transit/suburbs.db"))

	require.NoError(t, city.Set(ctx, 1, 6, PathRecord{StopIDs: []int{1, 6}}))
	_, ok, err := suburbs.Get(ctx, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, suburbs.Set(ctx, 1, 6, PathRecord{StopIDs: []int{1, 2, 6}}))
	removed, err := city.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, ok, err := suburbs.Get(ctx, 1, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 6}, got.StopIDs)
}

func TestPathCacheExpires(t *testing.T) {
	c, mr := setupPathCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 2, 3, PathRecord{StopIDs: []int{2, 3}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, 2, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPathCachePurgeKeepsForeignKeys(t *testing.T) {
	c, mr := setupPathCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, i, i+1, PathRecord{StopIDs: []int{i, i + 1}}))
	}
	require.NoError(t, mr.Set("other:1", "keep"))

	removed, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, removed)
	assert.True(t, mr.Exists("other:1"))
	assert.Len(t, mr.Keys(), 1)
}

func TestPathCacheCorruptValue(t *testing.T) {
	c, mr := setupPathCache(t)
	require.NoError(t, mr.Set("transit_path:7:8", "{"))

	_, _, err := c.Get(context.Background(), 7, 8)
	assert.Error(t, err)
}

func TestNilPathCacheIsNoop(t *testing.T) {
	var c *redisPathCache
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 1, 2)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(ctx, 1, 2, PathRecord{}))
	n, err := c.Purge(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Close())
}

func TestNewRedisPathCacheRequiresAddr(t *testing.T) {
	_, err := NewRedisPathCache("", "", 0, time.Hour, "")
	assert.Error(t, err)
}
