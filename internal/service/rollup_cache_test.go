package service

import (
	"context"
	"testing"
	"time"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *RollupCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRollupCache(store.NewRedisKV(client), 5*time.Minute, zap.NewNop())
	return mr, cache
}

func TestRollupCache_PutAndGet(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	combined := 3.4
	status := domain.HealthFair
	priority := domain.PriorityMedium
	rollup := domain.StructureRollup{
		CombinedScore:         &combined,
		HealthStatus:          &status,
		Priority:              &priority,
		FlatsNeedingAttention: 2,
	}

	require.NoError(t, cache.PutStructureRollup(ctx, "s-1", rollup))

	got, err := cache.GetStructureRollup(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, got.CombinedScore)
	assert.Equal(t, 3.4, *got.CombinedScore)
	assert.Equal(t, domain.HealthFair, *got.HealthStatus)
	assert.Equal(t, 2, got.FlatsNeedingAttention)
}

func TestRollupCache_Miss(t *testing.T) {
	_, cache := setupTestCache(t)

	_, err := cache.GetStructureRollup(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrMiss)
}

func TestRollupCache_KeyLayout(t *testing.T) {
	mr, cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutStructureRollup(ctx, "s-1", domain.StructureRollup{}))
	assert.True(t, mr.Exists("sams:structure:s-1:rollup"))
}

func TestRollupCache_Invalidate(t *testing.T) {
	mr, cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutStructureRollup(ctx, "s-1", domain.StructureRollup{}))
	require.NoError(t, cache.Invalidate(ctx, "s-1"))
	assert.False(t, mr.Exists("sams:structure:s-1:rollup"))
}
