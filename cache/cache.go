// Package cache keeps recent per-region audit results in memory so repeat
// requests for an unchanged page can skip the browser and the analysis model
// entirely. It also retains the last content fingerprint per key, which is
// what lets a fresh capture be recognised as "same page, nothing changed".
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/launchlens/pdpaudit/models"
)

type entry struct {
	result    *models.RegionResult
	createdAt time.Time
}

// Cache is a bounded in-memory store of region results, safe for concurrent
// use. A background goroutine evicts entries older than 1 hour every
// 5 minutes regardless of lookups.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}
	go c.cleanupLoop()
	return c
}

// Key derives the cache key from everything that changes the audit outcome:
// the page, the target market and the artifact profile.
func Key(url, region, profile string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(region))
	h.Write([]byte("|"))
	h.Write([]byte(profile))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached result younger than maxAge. maxAge is in
// milliseconds; zero or negative disables the lookup so callers opt in
// per request.
func (c *Cache) Get(key string, maxAgeMs int) (*models.RegionResult, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}
	return e.result, true
}

// Fingerprints returns the text and DOM fingerprints of the cached result
// for key, with no age limit: even a stale entry is a valid baseline for
// change detection.
func (c *Cache) Fingerprints(key string) (text, dom uint64, ok bool) {
	c.mu.RLock()
	e, found := c.store[key]
	c.mu.RUnlock()

	if !found || e.result == nil || e.result.Bundle == nil {
		return 0, 0, false
	}
	return e.result.Bundle.ContentFingerprint, e.result.Bundle.DOMFingerprint, true
}

// Set stores a result. At capacity one random entry is evicted (map
// iteration order is random in Go).
func (c *Cache) Set(key string, result *models.RegionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		result:    result,
		createdAt: time.Now(),
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
