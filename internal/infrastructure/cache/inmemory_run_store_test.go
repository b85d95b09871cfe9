package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunStore(t *testing.T) {
	t.Run("first claim wins, second is rejected", func(t *testing.T) {
		store := NewInMemoryRunStore(time.Hour)

		ok, err := store.TryBegin(context.Background(), "reminder:monthly:2026-08")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.TryBegin(context.Background(), "reminder:monthly:2026-08")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		store := NewInMemoryRunStore(time.Hour)

		ok, _ := store.TryBegin(context.Background(), "reminder:extension:2026-08-29")
		assert.True(t, ok)
		ok, _ = store.TryBegin(context.Background(), "reminder:extension:2026-08-30")
		assert.True(t, ok)
		assert.Equal(t, 2, store.Size())
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		store := NewInMemoryRunStore(10 * time.Millisecond)

		ok, _ := store.TryBegin(context.Background(), "reminder:monthly:2026-08")
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		ok, err := store.TryBegin(context.Background(), "reminder:monthly:2026-08")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("exactly one concurrent claimer wins", func(t *testing.T) {
		store := NewInMemoryRunStore(time.Hour)

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0

		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := store.TryBegin(context.Background(), "reminder:monthly:2026-08")
				require.NoError(t, err)
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})
}
