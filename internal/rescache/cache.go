// Package rescache memoizes expensive shared resources (models, lookup
// tables) for the lifetime of the process.
package rescache

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds the value for a key. It runs at most once per key unless it
// fails, in which case nothing is stored and the next caller retries.
type Factory[V any] func(ctx context.Context) (V, error)

// Cache maps keys to lazily built values. Each key class (classifier,
// transcriber, pose lookup) gets its own Cache so unrelated construction never
// shares a lock.
type Cache[K comparable, V any] struct {
	name  string
	mu    sync.RWMutex
	items map[K]V
}

// New returns an empty cache. The name appears in error messages.
func New[K comparable, V any](name string) *Cache[K, V] {
	return &Cache[K, V]{name: name, items: make(map[K]V)}
}

// GetOrCreate returns the cached value for key, building it with factory on
// first use. Concurrent callers for the same key observe a single factory
// invocation.
func (c *Cache[K, V]) GetOrCreate(ctx context.Context, key K, factory Factory[V]) (V, error) {
	c.mu.RLock()
	value, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if value, ok := c.items[key]; ok {
		return value, nil
	}

	value, err := c.build(ctx, factory)
	if err != nil {
		var zero V
		return zero, err
	}
	c.items[key] = value
	return value, nil
}

func (c *Cache[K, V]) build(ctx context.Context, factory Factory[V]) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s cache: factory panicked: %v", c.name, r)
		}
	}()
	if factory == nil {
		return value, fmt.Errorf("%s cache: nil factory", c.name)
	}
	return factory(ctx)
}

// Get returns the cached value without building it.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.items[key]
	return value, ok
}

// Len reports how many values have been built.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns the cached keys formatted with %v, sorted.
func (c *Cache[K, V]) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, fmt.Sprint(k))
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Name returns the cache's diagnostic name.
func (c *Cache[K, V]) Name() string {
	return c.name
}
