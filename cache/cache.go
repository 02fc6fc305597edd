// Package cache implements the bounded LRU cache with optional TTL that
// every pipeline stage consults before invoking its back-end. A single
// mutex guards the ordered map and the hit/miss counters; no cache
// operation blocks on I/O while holding it.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/clipforge/pipeline/config"
	pipelineerrors "github.com/clipforge/pipeline/errors"
)

type entry struct {
	key        string
	value      interface{}
	insertedAt time.Time
}

// Stats is the snapshot returned by Cache.Stats.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int
	Misses    int
	Evictions int
}

// HitRate returns Hits / (Hits+Misses), or 0 when there have been no calls.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Total is the number of Get calls observed (Hits+Misses).
func (s Stats) Total() int {
	return s.Hits + s.Misses
}

// Cache is a bounded, order-tracked LRU with an optional TTL. The zero
// value is not usable; construct with New.
type Cache struct {
	mu sync.Mutex

	maxSize int
	ttl     time.Duration // 0 means entries never expire

	order *list.List               // front = most recently used
	items map[string]*list.Element // key -> element holding *entry

	hits      int
	misses    int
	evictions int
}

// New constructs a Cache with the given capacity and optional TTL. A
// non-positive maxSize is a configuration error. ttl <= 0 means entries
// never expire.
func New(maxSize int, ttl time.Duration) (*Cache, error) {
	if maxSize <= 0 {
		return nil, pipelineerrors.NewCacheError("max_size must be positive", nil)
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}, nil
}

// NewFromConfig is a convenience constructor reading capacity/TTL off a
// config.Config.
func NewFromConfig(cfg config.Config) (*Cache, error) {
	return New(cfg.CacheMaxSize, cfg.CacheTTL)
}

func (c *Cache) expired(e *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.Sub(e.insertedAt) > c.ttl
}

// Get returns the cached value for key and true, or (nil, false) if the key
// is absent or its entry has expired. A hit promotes the entry to
// most-recently-used; an expired entry is evicted and counted as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := elem.Value.(*entry)
	if c.expired(e, time.Now()) {
		c.order.Remove(elem)
		delete(c.items, key)
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Set stores value under key, evicting the least-recently-used entry if the
// cache is at capacity. Setting an existing key replaces it and moves it to
// most-recently-used without counting as an eviction.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	} else if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
			c.evictions++
		}
	}

	e := &entry{key: key, value: value, insertedAt: time.Now()}
	elem := c.order.PushFront(e)
	c.items[key] = elem
}

// Delete removes key if present, reporting whether it was.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.Remove(elem)
	delete(c.items, key)
	return true
}

// Contains reports whether key is present and unexpired, without affecting
// recency order or hit/miss stats.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	return !c.expired(elem.Value.(*entry), time.Now())
}

// Size returns the current number of entries (expired or not - expiry is
// detected lazily on Get).
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops all entries and resets hit/miss statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Stats returns a snapshot of size, capacity, hit/miss and eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      c.order.Len(),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
