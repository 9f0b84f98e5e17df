package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mikey/grammar-relay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEntry(original, corrected string, ttl time.Duration) *core.CorrectionEntry {
	now := time.Now()
	return &core.CorrectionEntry{
		Key:       original, // callers store the lowercase form
		Original:  original,
		Corrected: corrected,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newEntry("i goes to school.", "I go to school.", time.Hour)))

	got, ok, err := c.Get(ctx, "i goes to school.")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "I go to school.", got)
}

func TestMemoryCacheLookupIsCaseInsensitive(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newEntry("i goes to school.", "I go to school.", time.Hour)))

	got, ok, err := c.Get(ctx, "I GOES TO SCHOOL.")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "I go to school.", got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	_, ok, err := c.Get(context.Background(), "never stored")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiredEntryIsAbsent(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newEntry("stale fragment.", "Stale fragment.", -time.Second)))

	_, ok, err := c.Get(ctx, "stale fragment.")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are treated as absent")
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newEntry("teh cat.", "The cat.", time.Hour)))
	require.NoError(t, c.Set(ctx, newEntry("teh cat.", "The cat!", time.Hour)))

	got, ok, err := c.Get(ctx, "teh cat.")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "The cat!", got, "last writer wins")
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, newEntry("fresh.", "Fresh.", time.Hour)))
	require.NoError(t, c.Set(ctx, newEntry("stale.", "Stale.", -time.Second)))

	require.NoError(t, c.Cleanup(ctx))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.entries, 1)
	assert.Contains(t, c.entries, "fresh.")
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("fragment %d.", i%4)
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, newEntry(key, "corrected.", time.Hour))
				_, _, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
