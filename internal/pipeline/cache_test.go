package pipeline

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(fingerprint, filter string) *Result {
	return &Result{State: StateOK, Fingerprint: fingerprint, FilterKey: filter}
}

func TestResultCache_GetPut(t *testing.T) {
	c := newResultCache(10)

	_, ok := c.get("fp", "missing")
	assert.False(t, ok)

	want := result("fp", "k1")
	assert.False(t, c.put(want))

	got, ok := c.get("fp", "k1")
	require.True(t, ok)
	assert.Same(t, want, got)

	_, ok = c.get("other", "k1")
	assert.False(t, ok, "same filter on another dataset is a different entry")
}

func TestResultCache_ReplaceSameKey(t *testing.T) {
	c := newResultCache(10)

	c.put(result("fp", "k"))
	newer := result("fp", "k")
	c.put(newer)

	got, ok := c.get("fp", "k")
	require.True(t, ok)
	assert.Same(t, newer, got)
	assert.Equal(t, 1, c.size())
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newResultCache(2)

	c.put(result("fp", "a"))
	c.put(result("fp", "b"))

	// Reading "a" leaves "b" as the oldest entry.
	c.get("fp", "a")

	assert.True(t, c.put(result("fp", "c")))

	_, ok := c.get("fp", "b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.get("fp", "a")
	assert.True(t, ok)
	_, ok = c.get("fp", "c")
	assert.True(t, ok)
}

func TestResultCache_EvictDataset(t *testing.T) {
	c := newResultCache(10)

	c.put(result("old", "all"))
	c.put(result("new", "all"))
	c.put(result("old", "north"))
	c.put(result("new", "north"))

	assert.Equal(t, 2, c.evictDataset("old"))
	assert.Equal(t, 2, c.size())

	_, ok := c.get("old", "all")
	assert.False(t, ok)
	_, ok = c.get("new", "north")
	assert.True(t, ok)

	assert.Zero(t, c.evictDataset("old"), "evicting twice is a no-op")

	// The list and index stay consistent after removals.
	c.put(result("new", "south"))
	assert.Equal(t, 3, c.size())
}

func TestResultCache_Disabled(t *testing.T) {
	c := newResultCache(0)

	assert.False(t, c.put(result("fp", "a")))

	_, ok := c.get("fp", "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.size())
	assert.Zero(t, c.evictDataset("fp"))
}

func TestResultCache_Concurrent(t *testing.T) {
	c := newResultCache(50)
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fp := fmt.Sprintf("fp-%d", n%3)
			filter := fmt.Sprintf("key-%d", n%20)
			c.put(result(fp, filter))
			c.get(fp, filter)
			if n%10 == 0 {
				c.evictDataset(fp)
			}
		}(i)
	}

	wg.Wait()
	assert.LessOrEqual(t, c.size(), 50)
}
