package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCacheRepo struct {
	stubCacheRepo
	err error
}

func (f *failingCacheRepo) Get(context.Context, string, interface{}) error { return f.err }

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), "stats:faculty:F1", map[string]int{"a": 1}, 0))
	var out map[string]int
	hit, err := svc.Get(context.Background(), "stats:faculty:F1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.store)
	assert.Equal(t, 5*time.Minute, svc.defaultTTL)
}

func TestCacheServiceHitMissAndInvalidate(t *testing.T) {
	repo := &stubCacheRepo{}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out map[string]int
	hit, err := svc.Get(ctx, "stats:faculty:F1", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "stats:faculty:F1", map[string]int{"responses": 3}, 0))
	require.NoError(t, svc.Set(ctx, "stats:faculty:F2", map[string]int{"responses": 1}, 0))

	hit, err = svc.Get(ctx, "stats:faculty:F1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, out["responses"])

	assert.EqualValues(t, 1, atomic.LoadUint64(&metrics.cacheHitCount))
	assert.EqualValues(t, 1, atomic.LoadUint64(&metrics.cacheMissCount))

	require.NoError(t, svc.Delete(ctx, "stats:faculty:F2"))
	assert.Equal(t, []string{"stats:faculty:F2"}, repo.deleted)

	require.NoError(t, svc.Invalidate(ctx, "stats:faculty:*"))
	assert.Empty(t, repo.store)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewCacheService(&failingCacheRepo{err: boom}, nil, time.Minute, zap.NewNop(), true)

	var out map[string]int
	hit, err := svc.Get(context.Background(), "stats:batch:B", &out)
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)
}
