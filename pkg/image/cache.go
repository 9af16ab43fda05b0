package image

import (
	"container/list"
	"fmt"
	"sync"
)

// renderKey identifies one rendered output.
type renderKey struct {
	protocol   string
	source     string
	cols, rows int
	fit        Fit
}

func (k renderKey) String() string {
	return fmt.Sprintf("%s:%dx%d:%d:%s", k.protocol, k.cols, k.rows, k.fit, k.source)
}

// CacheStats reports hit/miss counts for observability.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	SizeBytes int64
}

type renderEntry struct {
	key      renderKey
	rendered string
}

// Cache is a size-bounded LRU of rendered strings. Rendering a photo is far
// more expensive than a View call, so the TUI renders each card once per
// size and reuses it.
type Cache struct {
	mu       sync.Mutex
	items    map[renderKey]*list.Element
	order    *list.List // front = most recent
	maxBytes int64
	used     int64
	stats    CacheStats
}

// NewCache creates a cache holding up to maxMB megabytes. maxMB <= 0 means 32.
func NewCache(maxMB int) *Cache {
	if maxMB <= 0 {
		maxMB = 32
	}
	return &Cache{
		items:    make(map[renderKey]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) << 20,
	}
}

func (c *Cache) get(k renderKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[k]
	if !ok {
		c.stats.Misses++
		return "", false
	}
	c.order.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*renderEntry).rendered, true
}

func (c *Cache) put(k renderKey, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[k]; ok {
		e := elem.Value.(*renderEntry)
		c.used += int64(len(rendered) - len(e.rendered))
		e.rendered = rendered
		c.order.MoveToFront(elem)
	} else {
		c.items[k] = c.order.PushFront(&renderEntry{key: k, rendered: rendered})
		c.used += int64(len(rendered))
	}
	for c.used > c.maxBytes && c.order.Len() > 1 {
		e := c.order.Remove(c.order.Back()).(*renderEntry)
		delete(c.items, e.key)
		c.used -= int64(len(e.rendered))
		c.stats.Evictions++
	}
}

// Invalidate clears all entries, e.g. after a theme or terminal change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[renderKey]*list.Element)
	c.order.Init()
	c.used = 0
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = c.order.Len()
	s.SizeBytes = c.used
	return s
}
