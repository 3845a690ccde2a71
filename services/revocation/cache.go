package revocation

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry holds one revocation answer until expiresAt
type cacheEntry struct {
	jti       string
	revoked   bool
	expiresAt time.Time
	element   *list.Element
}

// Cache is an in-memory LRU of revocation answers with per-entry expiry.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lruList *list.List
	maxSize int
	now     func() time.Time
	hits    uint64
	misses  uint64
}

// NewCache creates a cache holding at most maxSize answers
func NewCache(maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached answer for jti. ok is false on a miss or when the
// answer has expired.
func (c *Cache) Get(jti string) (revoked bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[jti]
	if !exists || !c.now().Before(entry.expiresAt) {
		c.misses++
		if exists {
			c.removeEntry(jti)
		}
		return false, false
	}

	c.lruList.MoveToFront(entry.element)
	c.hits++
	return entry.revoked, true
}

// Set stores an answer for jti until expiresAt
func (c *Cache) Set(jti string, revoked bool, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[jti]; exists {
		entry.revoked = revoked
		entry.expiresAt = expiresAt
		c.lruList.MoveToFront(entry.element)
		return
	}

	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	entry := &cacheEntry{jti: jti, revoked: revoked, expiresAt: expiresAt}
	entry.element = c.lruList.PushFront(jti)
	c.entries[jti] = entry
}

// CleanupExpired drops expired answers and returns how many were removed
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for jti, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			c.removeEntry(jti)
			removed++
		}
	}
	return removed
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{Size: c.lruList.Len(), MaxSize: c.maxSize, Hits: c.hits, Misses: c.misses}
}

// removeEntry must be called with the lock held
func (c *Cache) removeEntry(jti string) {
	if entry, exists := c.entries[jti]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, jti)
	}
}

// evictLRU must be called with the lock held
func (c *Cache) evictLRU() {
	if back := c.lruList.Back(); back != nil {
		c.lruList.Remove(back)
		delete(c.entries, back.Value.(string))
	}
}
