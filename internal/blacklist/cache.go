package blacklist

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry struct {
	blacklisted bool
	expiresAt   time.Time
}

// cache is a bounded TTL cache of blacklist lookups. When full, expired
// entries are evicted first; if none have expired, an arbitrary entry goes.
type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[uuid.UUID]cacheEntry
}

func newCache(ttl time.Duration, max int) *cache {
	return &cache{
		ttl:     ttl,
		max:     max,
		entries: make(map[uuid.UUID]cacheEntry),
	}
}

func (c *cache) get(userID uuid.UUID, now time.Time) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return false, false
	}
	if !entry.expiresAt.After(now) {
		delete(c.entries, userID)
		return false, false
	}
	return entry.blacklisted, true
}

// set caches a lookup result. The cache expiry never outlives the block
// itself, so a lapsed block cannot be reported stale.
func (c *cache) set(userID uuid.UUID, blacklisted bool, blockExpiry *time.Time, now time.Time) {
	expiresAt := now.Add(c.ttl)
	if blacklisted && blockExpiry != nil && blockExpiry.Before(expiresAt) {
		expiresAt = *blockExpiry
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[userID]; !exists && len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[userID] = cacheEntry{blacklisted: blacklisted, expiresAt: expiresAt}
}

func (c *cache) evictLocked(now time.Time) {
	for id, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, id)
			return
		}
	}
	for id := range c.entries {
		delete(c.entries, id)
		return
	}
}

func (c *cache) invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

func (c *cache) purgeExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for id, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}
