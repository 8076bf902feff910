//go:build unit

package cache_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medrecords-gateway/internal/infra/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("初回のみtrue", func(t *testing.T) {
		s := cache.NewMemoryIdempotencyStore()

		first, err := s.PutIfAbsent(ctx, "key", now)
		require.NoError(t, err)
		second, err := s.PutIfAbsent(ctx, "key", now.Add(time.Second))
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)

		has, err := s.Has(ctx, "key")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("同時に同じキーでも成功は1件", func(t *testing.T) {
		s := cache.NewMemoryIdempotencyStore()
		const n = 100

		var (
			wg  sync.WaitGroup
			won atomic.Int32
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.PutIfAbsent(ctx, "shared", now)
				assert.NoError(t, err)
				if ok {
					won.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), won.Load())
		assert.Equal(t, 1, s.Len())
	})
}

func TestMemoryIdempotencyStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := cache.NewMemoryIdempotencyStore()

	for i := 0; i < 5; i++ {
		_, err := s.PutIfAbsent(ctx, fmt.Sprintf("old-%d", i), now.Add(-48*time.Hour))
		require.NoError(t, err)
	}
	_, err := s.PutIfAbsent(ctx, "fresh", now)
	require.NoError(t, err)

	removed, err := s.Sweep(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(5), removed)
	assert.Equal(t, 1, s.Len())

	// swept keys can be accepted again
	ok, err := s.PutIfAbsent(ctx, "old-0", now)
	require.NoError(t, err)
	assert.True(t, ok)
}
