package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// cacheKey identifies a request. Limit is part of the key because results
// are stored already truncated.
type cacheKey struct {
	query    string
	limit    int
	withData bool
}

type cacheEntry struct {
	suggestions []Suggestion
	lastAccess  int64
}

// ResultCache keeps the results of recent queries, evicting the least
// recently used entry when full.
type ResultCache struct {
	entries     map[cacheKey]*cacheEntry
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache creates a cache holding up to maxEntries results.
// A size of zero or less disables caching.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[cacheKey]*cacheEntry, max(maxEntries, 0)),
		maxEntries: maxEntries,
	}
}

// Get returns the cached suggestions for key. Callers must not modify them.
func (rc *ResultCache) Get(key cacheKey) ([]Suggestion, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	e, ok := rc.entries[key]
	if !ok {
		rc.misses++
		return nil, false
	}
	rc.hits++
	e.lastAccess = rc.nextAccessTime()
	return e.suggestions, true
}

// Put stores suggestions under key.
func (rc *ResultCache) Put(key cacheKey, suggestions []Suggestion) {
	if rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if e, ok := rc.entries[key]; ok {
		e.suggestions = suggestions
		e.lastAccess = rc.nextAccessTime()
		return
	}
	if len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = &cacheEntry{suggestions: suggestions, lastAccess: rc.nextAccessTime()}
}

// Clear drops every entry.
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	clear(rc.entries)
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries": len(rc.entries),
		"maxCache":     rc.maxEntries,
		"cacheHits":    rc.hits,
		"cacheMisses":  rc.misses,
	}
}

func (rc *ResultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

// evictLRU drops the least recently used entry.
func (rc *ResultCache) evictLRU() {
	var oldest cacheKey
	oldestTime := int64(math.MaxInt64)
	for key, e := range rc.entries {
		if e.lastAccess < oldestTime {
			oldestTime = e.lastAccess
			oldest = key
		}
	}
	if oldestTime != math.MaxInt64 {
		delete(rc.entries, oldest)
		log.Debugf("Evicted query %q from result cache", oldest.query)
	}
}
