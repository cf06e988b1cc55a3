package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_GetMissing(t *testing.T) {
	store := NewKVStore()

	value, found, err := store.Get(context.Background(), "xrexb2b.state.v1")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	require.NoError(t, store.Set(ctx, "key", "2"))
	require.NoError(t, store.Set(ctx, "key", "4"))

	value, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "4", value)
}

func TestKVStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, fmt.Sprintf("key-%d", i), "value")
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _, _ = store.Get(ctx, fmt.Sprintf("key-%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, found, err := store.Get(ctx, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		assert.True(t, found)
	}
}
