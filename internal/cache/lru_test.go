package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/results/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_Basic(t *testing.T) {
	c := NewLRU(1024, nil)

	c.Set("a", []byte("alpha"))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", string(got))

	_, ok = c.Get("missing")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(10, nil)

	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))
	_, _ = c.Get("a") // a is now most recent
	c.Set("c", []byte("cccc"))

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(8), c.Size())

	c.Set("huge", make([]byte, 11))
	_, ok = c.Get("huge")
	assert.False(t, ok)
}

func TestLRU_Replace(t *testing.T) {
	c := NewLRU(100, nil)
	c.Set("a", []byte("one"))
	c.Set("a", []byte("three"))

	got, _ := c.Get("a")
	assert.Equal(t, "three", string(got))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, 1, c.Len())
}

func TestLRU_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 6})
	c := NewLRU(100, rc)

	c.Set("a", []byte("1234"))
	assert.Equal(t, int64(4), rc.MemoryUsage())

	// Denied by the global limit.
	c.Set("b", []byte("1234"))
	_, ok := c.Get("b")
	assert.False(t, ok)

	c.Invalidate("a")
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestShardedLRU(t *testing.T) {
	c := NewShardedLRU(1<<20, nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("evt-%d-%d", w, j)
				c.Set(key, []byte(key))
				got, ok := c.Get(key)
				assert.True(t, ok)
				assert.Equal(t, key, string(got))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, c.Len())
	hits, _ := c.Stats()
	assert.Equal(t, int64(800), hits)

	c.Invalidate("evt-0-0")
	_, ok := c.Get("evt-0-0")
	assert.False(t, ok)
	assert.Positive(t, c.Size())
}
