package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/qa-dashboard-api/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "dashboard:charts:1", map[string]int{"WNS": 3}, time.Minute))
	var got map[string]int
	require.NoError(t, repo.Get(ctx, "dashboard:charts:1", &got))
	assert.Equal(t, 3, got["WNS"])

	srv.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:charts:1", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	_, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "dashboard:charts:1", 1, 0))
	require.NoError(t, repo.Set(ctx, "dashboard:charts:2", 2, 0))
	require.NoError(t, repo.Set(ctx, "other", 3, 0))

	removed, err := repo.DeleteByPattern(ctx, "dashboard:*")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	var v int
	assert.NoError(t, repo.Get(ctx, "other", &v))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.False(t, repo.Enabled())
	assert.NoError(t, repo.Set(ctx, "k", 1, time.Minute))
	var v int
	assert.ErrorIs(t, repo.Get(ctx, "k", &v), appErrors.ErrCacheMiss)
	removed, err := repo.DeleteByPattern(ctx, "*")
	assert.NoError(t, err)
	assert.Zero(t, removed)
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryDropsUndecodableEntry(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	require.NoError(t, srv.Set("qa:dashboard:charts:1", "not json"))

	var got map[string]int
	assert.ErrorIs(t, repo.Get(context.Background(), "qa:dashboard:charts:1", &got), appErrors.ErrCacheMiss)
	assert.False(t, srv.Exists("qa:dashboard:charts:1"))
}

func TestCacheRepositoryDeleteByPatternBatches(t *testing.T) {
	srv, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	for i := 0; i < 2*scanBatch+7; i++ {
		require.NoError(t, srv.Set(fmt.Sprintf("qa:dashboard:charts:%d", i), "1"))
	}

	removed, err := repo.DeleteByPattern(context.Background(), "qa:dashboard:*")
	require.NoError(t, err)
	assert.Equal(t, 2*scanBatch+7, removed)
	assert.Empty(t, srv.Keys())
}
