// Package cache provides a small thread-safe LRU used for dashboard sessions
// and memoized aggregate results.
package cache

import "sync"

// LRU is a fixed-capacity map that evicts the least recently used entry.
type LRU[K comparable, V any] struct {
	maxEntries int
	onEvict    func(K, V)
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// Option customizes an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithEvictHook registers fn to run, under the cache lock, whenever an entry
// is evicted for capacity.
func WithEvictHook[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *LRU[K, V]) { c.onEvict = fn }
}

// NewLRU creates an LRU holding at most maxEntries. A non-positive size
// disables caching: Put is a no-op and Get always misses.
func NewLRU[K comparable, V any](maxEntries int, opts ...Option[K, V]) *LRU[K, V] {
	c := &LRU[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// LoadOrStore returns the existing value for key if present. Otherwise it
// stores value and returns it with loaded false. Callers can build value
// without holding the cache lock and let the first writer win.
func (c *LRU[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.moveToFront(e)
		return e.value, true
	}
	if c.maxEntries <= 0 {
		return value, false
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)
	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
	return value, false
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRU[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	victim := c.tail
	delete(c.entries, victim.key)
	c.remove(victim)
	if c.onEvict != nil {
		c.onEvict(victim.key, victim.value)
	}
}
