package cache

import (
	"container/list"
	"sync"

	"github.com/af-corp/scribe/internal/types"
)

const DefaultCapacity = 100

// LRU is a fixed-capacity least-recently-used cache of generation results.
// Both Get and Put count as use. Values are stored and returned by value so
// cached entries cannot be mutated through aliasing. Safe for concurrent use.
type LRU struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type lruEntry struct {
	key    string
	result types.GenerationResult
}

func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached result for key, marking it most recently used.
func (c *LRU) Get(key string) (types.GenerationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return types.GenerationResult{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).result, true
}

// Put stores the result under key, evicting the least recently used entry
// when the cache is full. Storing an existing key refreshes its value and
// recency.
func (c *LRU) Put(key string, result types.GenerationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*lruEntry).result = result
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, result: result})
}

// Clear empties the cache and returns how many entries were dropped.
func (c *LRU) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.order.Init()
	c.entries = make(map[string]*list.Element, c.capacity)
	return n
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the configured maximum entry count.
func (c *LRU) Capacity() int {
	return c.capacity
}
