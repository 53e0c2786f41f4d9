package cache_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/cache"
)

func TestLRU(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	assert.Equal(t, 2, c.Len())

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_GetOrCreate(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](4)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}

	for range 3 {
		v, err := c.GetOrCreate("k", create)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err := c.GetOrCreate("bad", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](16)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := strconv.Itoa((i + j) % 32)
				c.Put(key, j)
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestNewLRU_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRU[string, int](0) })
}
