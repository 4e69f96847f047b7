package cache

import (
	"sync"
	"sync/atomic"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
)

const DefaultBucketCount = 1024

type entry struct {
	shortCode string
	targetURL string
}

type bucket struct {
	lock    sync.RWMutex
	entries []entry
}

// ShortURLCache is a fixed-bucket chained cache from short code to target url.
// The bucket count is fixed at construction; buckets grow without eviction.
// Entries are a disposable projection of the canonical record, so the cache
// never answers "does not exist", only "unknown".
type ShortURLCache struct {
	buckets []bucket
	count   atomic.Int64
}

var _ domain.ShortURLCache = (*ShortURLCache)(nil)

func CreateShortURLCache(bucketCount int) *ShortURLCache {
	if bucketCount <= 0 {
		bucketCount = DefaultBucketCount
	}
	return &ShortURLCache{
		buckets: make([]bucket, bucketCount),
	}
}

// hashKey sums each character weighted by position+1. Position weighting is
// fine here: keys are short fixed-length high-entropy codes, never
// adversarially chosen.
func (c *ShortURLCache) hashKey(key string) int {
	sum := 0
	for i := 0; i < len(key); i++ {
		sum += (i + 1) * int(key[i])
	}
	return sum % len(c.buckets)
}

// Set inserts or overwrites the entry for shortCode. Last write wins.
func (c *ShortURLCache) Set(shortCode, targetURL string) {
	b := &c.buckets[c.hashKey(shortCode)]

	b.lock.Lock()
	defer b.lock.Unlock()

	// re-check under the bucket lock so concurrent sets of the same key
	// cannot append duplicate entries
	for i := range b.entries {
		if b.entries[i].shortCode == shortCode {
			b.entries[i].targetURL = targetURL
			return
		}
	}
	b.entries = append(b.entries, entry{shortCode: shortCode, targetURL: targetURL})
	c.count.Add(1)
}

func (c *ShortURLCache) Get(shortCode string) (string, bool) {
	b := &c.buckets[c.hashKey(shortCode)]

	b.lock.RLock()
	defer b.lock.RUnlock()

	for i := range b.entries {
		if b.entries[i].shortCode == shortCode {
			return b.entries[i].targetURL, true
		}
	}
	return "", false
}

// Delete removes the entry if present and reports whether a removal occurred.
func (c *ShortURLCache) Delete(shortCode string) bool {
	b := &c.buckets[c.hashKey(shortCode)]

	b.lock.Lock()
	defer b.lock.Unlock()

	for i := range b.entries {
		if b.entries[i].shortCode == shortCode {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			c.count.Add(-1)
			return true
		}
	}
	return false
}

// Count is maintained incrementally, never recomputed by scanning.
func (c *ShortURLCache) Count() int {
	return int(c.count.Load())
}
