// Package cache is a keyed, expiring store on top of gache, persisted under the cache directory.
package cache

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/samber/mo"
)

type data[K comparable, T any] struct {
	Entries map[K]T `json:"entries"`
}

// Cache is a map persisted as one JSON file. The whole file expires at once.
type Cache[K comparable, T any] struct {
	internal  *gache.Cache[*data[K, T]]
	normalize func(K) K
	mu        sync.RWMutex
}

// New returns a cache stored at path. A zero lifetime never expires.
// normalize may be nil.
func New[K comparable, T any](path string, lifetime time.Duration, normalize func(K) K) *Cache[K, T] {
	if normalize == nil {
		normalize = func(k K) K { return k }
	}

	return &Cache[K, T]{
		internal: gache.New[*data[K, T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
		normalize: normalize,
	}
}

func (c *Cache[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, expired, err := c.internal.Get()
	if err != nil || expired || d == nil {
		return mo.None[T]()
	}

	if v, ok := d.Entries[c.normalize(key)]; ok {
		return mo.Some(v)
	}

	return mo.None[T]()
}

func (c *Cache[K, T]) Set(key K, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || d == nil || d.Entries == nil {
		d = &data[K, T]{Entries: make(map[K]T)}
	}

	d.Entries[c.normalize(key)] = value
	return c.internal.Set(d)
}

func (c *Cache[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, expired, err := c.internal.Get()
	if err != nil || expired || d == nil {
		return err
	}

	delete(d.Entries, c.normalize(key))
	return c.internal.Set(d)
}

// Clear drops every entry.
func (c *Cache[K, T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.internal.Set(&data[K, T]{Entries: make(map[K]T)})
}
