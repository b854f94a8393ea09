package cache

import (
	"context"
	"database/sql"
	"eld-log-service/internal/adapters/repositories"
	"eld-log-service/internal/domain"
	"eld-log-service/internal/platform/db"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, repositories.InitSchema(context.Background(), conn))
	return conn
}

func TestSqliteGeocodeCache(t *testing.T) {
	c := NewSqliteGeocodeCache(openTestDB(t))
	ctx := context.Background()

	err := c.PutMany(ctx, map[string]domain.Coordinates{
		"Chicago, IL": {Lon: -87.63, Lat: 41.88},
		"Denver, CO":  {Lon: -104.99, Lat: 39.74},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, []string{"Chicago, IL", " Chicago, IL ", "Boise, ID", ""})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.Coordinates{"Chicago, IL": {Lon: -87.63, Lat: 41.88}}, got)
}

func TestSqliteGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := NewSqliteGeocodeCache(openTestDB(t))
	err := c.PutMany(context.Background(), map[string]domain.Coordinates{" ": {}})
	assert.Error(t, err)
}

func TestSqliteRouteLegCache(t *testing.T) {
	c := NewSqliteRouteLegCache(openTestDB(t))
	ctx := context.Background()
	from := domain.Coordinates{Lon: -87.63, Lat: 41.88}
	to := domain.Coordinates{Lon: -104.99, Lat: 39.74}

	_, ok, err := c.Get(ctx, "driving-hgv", from, to)
	require.NoError(t, err)
	assert.False(t, ok)

	leg := domain.LegMetrics{DistanceMiles: 1003.4, DurationHours: 14.9, Geometry: "abc"}
	require.NoError(t, c.Put(ctx, "driving-hgv", from, to, leg))

	got, ok, err := c.Get(ctx, "driving-hgv", from, to)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, leg, got)

	// Other profiles and the reverse direction are separate entries.
	_, ok, err = c.Get(ctx, "driving-car", from, to)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.Get(ctx, "driving-hgv", to, from)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisGeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewRedisGeocodeCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"Reno, NV": {Lon: -119.81, Lat: 39.53},
	}))

	got, err := c.GetMany(ctx, []string{"Reno, NV", "Elko, NV"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"Reno, NV": {Lon: -119.81, Lat: 39.53}}, got)
	assert.Equal(t, time.Hour, mr.TTL(redisGeocodePrefix+"Reno, NV"))

	mr.FastForward(2 * time.Hour)

	got, err = c.GetMany(ctx, []string{"Reno, NV"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
