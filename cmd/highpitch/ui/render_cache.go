package ui

import (
	"hash/fnv"
	"math"
	"sync"
)

// RenderCache provides hash-based caching for rendered content.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
	maxSize int
}

// cacheEntry stores cached render output with metadata.
type cacheEntry struct {
	content string
	hits    int
}

// NewRenderCache creates a new render cache with the specified max size.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &RenderCache{
		entries: make(map[uint64]*cacheEntry),
		maxSize: maxSize,
	}
}

// computeHash computes a FNV-1a hash for cache keys.
//
// Supported types are limited to avoid allocations in hot paths.
func computeHash(inputs ...interface{}) uint64 {
	h := fnv.New64a()
	var b [8]byte

	putUint := func(u uint64) {
		for i := 0; i < 8; i++ {
			b[i] = byte(u >> (8 * i))
		}
		h.Write(b[:])
	}

	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			putUint(uint64(len(v)))
			h.Write([]byte(v))
		case int:
			putUint(uint64(v))
		case float64:
			putUint(math.Float64bits(v))
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}

	return h.Sum64()
}

// Get retrieves cached content if available.
func (rc *RenderCache) Get(key uint64) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, ok := rc.entries[key]; ok {
		entry.hits++
		return entry.content, true
	}
	return "", false
}

// Set stores rendered content, evicting the least used entry when full.
func (rc *RenderCache) Set(key uint64, content string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, ok := rc.entries[key]; !ok && len(rc.entries) >= rc.maxSize {
		var victim uint64
		fewest := math.MaxInt
		for k, e := range rc.entries {
			if e.hits < fewest {
				victim, fewest = k, e.hits
			}
		}
		delete(rc.entries, victim)
	}
	rc.entries[key] = &cacheEntry{content: content, hits: 1}
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Clear empties the cache.
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[uint64]*cacheEntry)
}

// GetOrCompute retrieves from cache or computes if missing.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if content, ok := rc.Get(key); ok {
		return content
	}

	content := compute()
	rc.Set(key, content)
	return content
}

// ComputeKey generates a cache key from multiple inputs.
func ComputeKey(inputs ...interface{}) uint64 {
	return computeHash(inputs...)
}
