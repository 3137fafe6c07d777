package stl

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// ParsedContentCache memoizes dispatch output per occurrence. It is off
// unless an engine is built WithCache.
//
// Entries are keyed by page identity plus a hash of the raw occurrence, the
// inner-element flag and the enclosing context's occurrence and attributes.
// Page data is not part of the key: callers that change page data for an
// identity must call InvalidatePage, otherwise entries expire after TTL.
// Pages with a zero identity are never cached by the engine.
type ParsedContentCache struct {
	mu        sync.RWMutex
	entries   map[string]*parsedCacheEntry
	config    CacheConfig
	stats     CacheStats
	evictList []string // FIFO eviction order
}

type parsedCacheEntry struct {
	Content   string
	PageKey   string
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
}

// CacheConfig configures the parsed content cache.
type CacheConfig struct {
	// TTL is how long content is cached. Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached entries. Default: 1000.
	MaxEntries int

	// MaxResultSize is the maximum size of cached content in bytes. Default: 1MB.
	MaxResultSize int
}

// CacheStats tracks cache performance metrics.
type CacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// DefaultCacheConfig returns sensible defaults for parsed content caching.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:           DefaultCacheTTL,
		MaxEntries:    DefaultCacheMaxEntries,
		MaxResultSize: DefaultCacheMaxResultSize,
	}
}

// NewParsedContentCache creates a new cache; zero or negative config fields
// take defaults.
func NewParsedContentCache(config CacheConfig) *ParsedContentCache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.MaxResultSize <= 0 {
		config.MaxResultSize = DefaultCacheMaxResultSize
	}

	return &ParsedContentCache{
		entries:   make(map[string]*parsedCacheEntry),
		config:    config,
		evictList: make([]string, 0, config.MaxEntries),
	}
}

// Get retrieves cached content for an occurrence if present and not expired.
func (c *ParsedContentCache) Get(raw string, page *PageInfo, info *ContextInfo) (string, bool) {
	key := c.makeKey(raw, page, info)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		return "", false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.removeLocked(key, entry)
		c.stats.Misses++
		return "", false
	}

	entry.HitCount++
	c.stats.Hits++
	return entry.Content, true
}

// Set stores content for an occurrence.
func (c *ParsedContentCache) Set(raw string, page *PageInfo, info *ContextInfo, content string) {
	if len(content) > c.config.MaxResultSize {
		return
	}

	key := c.makeKey(raw, page, info)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.entries[key]; exists {
		c.stats.TotalSize -= int64(len(existing.Content))
	} else {
		if len(c.entries) >= c.config.MaxEntries {
			c.evictOldest()
		}
		c.evictList = append(c.evictList, key)
	}

	c.entries[key] = &parsedCacheEntry{
		Content:   content,
		PageKey:   pageKeyOf(page),
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.TTL),
	}
	c.stats.TotalSize += int64(len(content))
	c.stats.EntryCount = len(c.entries)
}

// InvalidatePage removes all entries cached for a page identity key, as
// returned by PageInfo.CacheKey. Returns the number of entries removed.
func (c *ParsedContentCache) InvalidatePage(pageKey string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.PageKey == pageKey {
			c.removeLocked(key, entry)
			removed++
		}
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *ParsedContentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*parsedCacheEntry)
	c.evictList = make([]string, 0, c.config.MaxEntries)
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// Cleanup removes expired entries. Call periodically for long-running applications.
func (c *ParsedContentCache) Cleanup() int {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			c.removeLocked(key, entry)
			removed++
		}
	}
	return removed
}

// Stats returns current cache statistics.
func (c *ParsedContentCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *ParsedContentCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

func (c *ParsedContentCache) removeLocked(key string, entry *parsedCacheEntry) {
	c.stats.TotalSize -= int64(len(entry.Content))
	delete(c.entries, key)
	c.stats.EntryCount = len(c.entries)
}

// evictOldest removes the oldest live entry. Keys already removed by
// expiry or invalidation are skipped.
func (c *ParsedContentCache) evictOldest() {
	for len(c.evictList) > 0 {
		oldestKey := c.evictList[0]
		c.evictList = c.evictList[1:]

		if entry, exists := c.entries[oldestKey]; exists {
			c.removeLocked(oldestKey, entry)
			c.stats.Evictions++
			return
		}
	}
}

// makeKey creates a cache key for an occurrence in its context.
func (c *ParsedContentCache) makeKey(raw string, page *PageInfo, info *ContextInfo) string {
	return pageKeyOf(page) + CacheKeySeparator + hashOccurrence(raw, info)
}

func pageKeyOf(page *PageInfo) string {
	if page == nil {
		return ""
	}
	return page.CacheKey()
}

// hashOccurrence hashes an occurrence together with the enclosing context
// fields that can change its output.
func hashOccurrence(raw string, info *ContextInfo) string {
	h := sha256.New()
	h.Write([]byte(raw))
	h.Write([]byte{0})
	if info != nil {
		h.Write([]byte(strconv.FormatBool(info.IsInnerElement)))
		h.Write([]byte{0})
		h.Write([]byte(info.raw))
		h.Write([]byte{0})
		// encoding/json sorts map keys, giving a stable attribute encoding
		if attrs, err := json.Marshal(info.attributes); err == nil {
			h.Write(attrs)
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
