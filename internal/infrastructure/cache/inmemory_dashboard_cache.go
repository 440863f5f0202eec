package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// InMemoryDashboardCache is a process-local dashboard cache. Suitable for
// single-instance deployments and testing; instances do not share entries.
type InMemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemoryDashboardCache creates an in-memory dashboard cache
func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	return &InMemoryDashboardCache{entries: make(map[string]inMemoryEntry)}
}

// Get reads a cached value into dest. Returns false on a miss or an
// expired entry.
func (c *InMemoryDashboardCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value with a TTL
func (c *InMemoryDashboardCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = inMemoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
