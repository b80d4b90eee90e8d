package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
	"github.com/noah-isme/qa-dashboard-api/internal/repository"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilCache *CacheService
	hit, err := nilCache.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, nilCache.Invalidate(context.Background(), "*"))

	off := NewCacheService(repository.NewCacheRepository(newTestRedis(t), nil), nil, 0, nil, false)
	assert.False(t, off.Enabled())
	assert.NoError(t, off.Set(context.Background(), "k", 1, 0))
}

func TestCacheServiceRecordsHitsAndMisses(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewCacheRepository(newTestRedis(t), nil), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var got []string
	hit, err := cache.Get(ctx, "qa:dashboard:charts:1:0", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "qa:dashboard:charts:1:0", []string{"Jane"}, 0))
	hit, err = cache.Get(ctx, "qa:dashboard:charts:1:0", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Jane"}, got)

	require.NoError(t, cache.InvalidateDashboard(ctx))
	hit, _ = cache.Get(ctx, "qa:dashboard:charts:1:0", &got)
	assert.False(t, hit)

	summary := metrics.Snapshot()
	assert.Equal(t, uint64(1), summary.CacheHits)
	assert.Equal(t, uint64(2), summary.CacheMisses)
}

func TestCacheServiceInvalidateDashboardLeavesOtherKeys(t *testing.T) {
	client := newTestRedis(t)
	cache := NewCacheService(repository.NewCacheRepository(client, nil), nil, time.Minute, nil, true)
	ctx := context.Background()
	snapshot := models.Snapshot{Version: 3, LoadedAt: time.Unix(0, 42)}

	key := ChartsKey(snapshot)
	assert.Equal(t, "qa:dashboard:charts:3:42", key)
	require.NoError(t, cache.Set(ctx, key, 1, 0))
	require.NoError(t, client.Set(ctx, "session:abc", "x", 0).Err())

	require.NoError(t, cache.InvalidateDashboard(ctx))
	var v int
	hit, err := cache.Get(ctx, key, &v)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), client.Exists(ctx, "session:abc").Val())
}
