package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nicojahn/readme-refresh/internal/domain"
)

// CachingClient wraps a RepositoryClient with caching capabilities.
// Follows Decorator pattern to add caching without modifying the underlying client.
type CachingClient struct {
	client RepositoryClient
	cache  *cache
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client RepositoryClient, cacheDuration time.Duration) *CachingClient {
	return &CachingClient{
		client: client,
		cache:  newCache(cacheDuration),
	}
}

// ListRepositories retrieves repositories with caching.
func (c *CachingClient) ListRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	key := "ListRepositories:" + user

	// Try cache first
	if cached, found := c.cache.get(key); found {
		if repos, ok := cached.([]domain.Repository); ok {
			log.Printf("Cache hit: %s (%d repositories)", key, len(repos))
			return repos, nil
		}
	}

	// Cache miss - fetch from underlying client
	log.Printf("Cache miss: %s - fetching from API", key)
	repos, err := c.client.ListRepositories(ctx, user)
	if err != nil {
		return nil, err
	}

	// Store in cache
	c.cache.set(key, repos)

	return repos, nil
}

// cache implements a thread-safe TTL cache.
type cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	duration time.Duration
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// newCache creates a new cache with the specified duration.
func newCache(duration time.Duration) *cache {
	return &cache{
		entries:  make(map[string]*cacheEntry),
		duration: duration,
	}
}

// get retrieves a value from cache.
func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	// Check if entry has expired
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

// set stores a value in cache with TTL.
func (c *cache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.duration),
	}
}
