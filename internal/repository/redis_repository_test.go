package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/feedback-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientIsAlwaysEmpty(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "feedback:stats:faculty:f1", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "k"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "feedback:*"))
}

func TestAttemptRepositoryWithoutClient(t *testing.T) {
	repo := NewAttemptRepository(nil)
	assert.False(t, repo.Enabled())
	n, err := repo.Increment(context.Background(), "k", time.Minute)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
