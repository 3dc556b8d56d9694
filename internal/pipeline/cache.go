package pipeline

import (
	"container/list"
	"sync"
)

// cacheKey identifies a result by the dataset it was computed from and the
// canonical filter applied to it.
type cacheKey struct {
	fingerprint string
	filter      string
}

// resultCache is a bounded LRU of computed results. Entries for a dataset can
// be dropped together once that dataset is no longer served. A capacity of
// zero disables caching.
type resultCache struct {
	capacity int

	mu    sync.Mutex
	order *list.List // of *Result, front is most recently used
	index map[cacheKey]*list.Element
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[cacheKey]*list.Element),
	}
}

func keyOf(res *Result) cacheKey {
	return cacheKey{fingerprint: res.Fingerprint, filter: res.FilterKey}
}

func (c *resultCache) get(fingerprint, filter string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[cacheKey{fingerprint, filter}]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*Result), true
}

// put stores res under its own fingerprint and filter key. It reports
// whether an older entry was pushed out to make room.
func (c *resultCache) put(res *Result) (evicted bool) {
	if c.capacity <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := keyOf(res)
	if el, ok := c.index[k]; ok {
		el.Value = res
		c.order.MoveToFront(el)
		return false
	}
	c.index[k] = c.order.PushFront(res)

	if c.order.Len() <= c.capacity {
		return false
	}
	oldest := c.order.Back()
	c.order.Remove(oldest)
	delete(c.index, keyOf(oldest.Value.(*Result)))
	return true
}

// evictDataset drops every result computed from the dataset with the given
// fingerprint and returns how many were removed.
func (c *resultCache) evictDataset(fingerprint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if res := el.Value.(*Result); res.Fingerprint == fingerprint {
			c.order.Remove(el)
			delete(c.index, keyOf(res))
			n++
		}
		el = next
	}
	return n
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
