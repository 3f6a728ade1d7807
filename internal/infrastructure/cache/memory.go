package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zaqa/backend/internal/domain"
)

// cacheItem represents a single cached vector with expiration
type cacheItem struct {
	Vector     []float32
	Expiration time.Time
}

// MemoryVectorCache is a thread-safe in-memory embedding vector cache with
// TTL support. Vectors are stored as-is; callers must not mutate returned
// slices.
type MemoryVectorCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryVectorCache creates a new in-memory vector cache
func NewMemoryVectorCache() *MemoryVectorCache {
	cache := &MemoryVectorCache{
		data: make(map[string]cacheItem),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a vector from the cache
func (c *MemoryVectorCache) Get(ctx context.Context, key string) ([]float32, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.Vector, nil
}

// Set stores a vector in the cache with TTL
func (c *MemoryVectorCache) Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Vector:     vector,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryVectorCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryVectorCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryVectorCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
