package cache

import (
	"bus-tracker-service/internal/adapters/repositories"
	"bus-tracker-service/internal/domain"
	"bus-tracker-service/internal/platform/db"
	"bus-tracker-service/internal/ports"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.RouteCache = (*SqliteRouteCache)(nil)
	_ ports.RouteCache = (*SQLRouteCache)(nil)
	_ ports.RouteCache = (*RedisRouteCache)(nil)
)

var testCoords = []domain.Coordinates{
	{Lat: 31.5204, Lon: 74.3587},
	{Lat: 31.5221, Lon: 74.3591},
	{Lat: 31.5250, Lon: 74.3600},
}

func assertCoordsClose(t *testing.T, want, got []domain.Coordinates) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Lat, got[i].Lat, 1e-5)
		assert.InDelta(t, want[i].Lon, got[i].Lon, 1e-5)
	}
}

func newSqliteCache(t *testing.T, ttl time.Duration) *SqliteRouteCache {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	return NewSqliteRouteCache(conn, ttl)
}

func TestSqliteRouteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newSqliteCache(t, 0)

	_, ok, err := c.Get(ctx, "a;b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "a;b", "osrm", testCoords))
	got, ok, err := c.Get(ctx, "a;b")
	require.NoError(t, err)
	require.True(t, ok)
	assertCoordsClose(t, testCoords, got)

	// Put replaces.
	require.NoError(t, c.Put(ctx, "a;b", "google", testCoords[:2]))
	got, ok, err = c.Get(ctx, "a;b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestSqliteRouteCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := newSqliteCache(t, time.Hour)

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Put(ctx, "k", "osrm", testCoords))

	now = now.Add(59 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSqliteRouteCacheRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	c := newSqliteCache(t, 0)

	assert.Error(t, c.Put(ctx, " ", "osrm", testCoords))
	assert.ErrorIs(t, c.Put(ctx, "k", "osrm", nil), domain.ErrNoRoute)
}

func TestRouteCacheNilDB(t *testing.T) {
	ctx := context.Background()

	_, _, err := (&SqliteRouteCache{}).Get(ctx, "k")
	assert.Error(t, err)
	_, _, err = (&SQLRouteCache{}).Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, (&RedisRouteCache{}).Put(ctx, "k", "osrm", testCoords))
}

func TestRedisRouteCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewRedisRouteCache(client, time.Hour)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", "osrm", testCoords))
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assertCoordsClose(t, testCoords, got)

	mr.FastForward(time.Hour + time.Second)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, mr.Set(redisKeyPrefix+"k", "not json"))

	_, _, err := NewRedisRouteCache(client, 0).Get(ctx, "k")
	assert.Error(t, err)
}
