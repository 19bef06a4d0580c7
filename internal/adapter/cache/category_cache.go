package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"monosig/internal/domain"
	"monosig/internal/port"
)

// CategoryCache memoizes type classifications. Entries are tagged with the
// enum generation they were computed under, since enum membership changes
// the answer for a type name.
type CategoryCache struct {
	mu      sync.RWMutex
	entries *lru.Cache[string, cacheEntry]
	enumGen uint64
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	category domain.Category
	enumGen  uint64
}

func NewCategoryCache(maxSize int) *CategoryCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, cacheEntry](maxSize)
	return &CategoryCache{entries: entries}
}

func (c *CategoryCache) Get(typeName string) (domain.Category, bool) {
	c.mu.RLock()
	entry, exists := c.entries.Get(typeName)
	currentGen := c.enumGen
	c.mu.RUnlock()

	if !exists || entry.enumGen != currentGen {
		c.mu.Lock()
		if exists {
			c.entries.Remove(typeName)
		}
		c.misses++
		c.mu.Unlock()
		return "", false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry.category, true
}

func (c *CategoryCache) Put(typeName string, category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(typeName, cacheEntry{
		category: category,
		enumGen:  c.enumGen,
	})
}

// Invalidate drops every entry. Call it whenever the enum set is rebuilt.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	c.enumGen++
}

func (c *CategoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Stats returns the hit and miss counters since construction.
func (c *CategoryCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// CachedClassifier serves repeated type spellings from a CategoryCache.
type CachedClassifier struct {
	classifier port.Classifier
	cache      *CategoryCache
}

func NewCachedClassifier(classifier port.Classifier, cache *CategoryCache) *CachedClassifier {
	return &CachedClassifier{
		classifier: classifier,
		cache:      cache,
	}
}

func (c *CachedClassifier) Classify(typeName string) domain.Category {
	if category, hit := c.cache.Get(typeName); hit {
		return category
	}

	category := c.classifier.Classify(typeName)
	c.cache.Put(typeName, category)

	return category
}
