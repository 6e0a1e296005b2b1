package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/climate-receivables/internal/risk"
)

func TestMemoryCache_SetGetInvalidate(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()
	assessment := risk.Assessment{Score: 42, Level: risk.LevelMedium, DiscountRate: 2.7, Confidence: 80}

	_, hit, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "r1", assessment))

	got, hit, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, assessment, *got)

	require.NoError(t, c.Invalidate(ctx, "r1"))
	_, hit, err = c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(&Options{TTL: 10 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", risk.Assessment{Score: 10}))
	time.Sleep(20 * time.Millisecond)

	_, hit, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_SeparateKeys(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", risk.Assessment{Score: 10}))
	require.NoError(t, c.Set(ctx, "r2", risk.Assessment{Score: 90}))

	a, hit, err := c.Get(ctx, "r2")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 90.0, a.Score)
}
