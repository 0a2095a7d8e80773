package util

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// LRUCache is a generic, lazily-initialized wrapper around an
// adaptive-replacement cache. The zero value is ready to use; the
// backing ARCCache is only allocated on first access, so a cache that
// is never touched costs nothing.
type LRUCache[K comparable, V any] struct {
	initOnce sync.Once
	inner    *lru.ARCCache
	size     int
}

// NewLRUCache returns a cache holding up to size entries.
func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	return &LRUCache[K, V]{size: size}
}

func (c *LRUCache[K, V]) init() {
	c.initOnce.Do(func() {
		n := c.size
		if n <= 0 {
			n = 128
		}
		c.inner, _ = lru.NewARC(n)
	})
}

func (c *LRUCache[K, V]) Add(key K, value V) {
	c.init()
	c.inner.Add(key, value)
}

func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.init()
	untyped, ok := c.inner.Get(key)
	if ok {
		value = untyped.(V)
	}
	return value, ok
}

func (c *LRUCache[K, V]) Purge() {
	c.init()
	c.inner.Purge()
}

func (c *LRUCache[K, V]) Len() int {
	c.init()
	return c.inner.Len()
}
