package cache

import (
	"context"
	"sync"
	"time"

	"github.com/verdant-labs/climate-receivables/internal/risk"
)

type memoryEntry struct {
	assessment risk.Assessment
	expiresAt  time.Time
}

// MemoryCache implements ScoreCache with in-memory storage. Entries are
// expired lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryCache creates a new in-memory score cache
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     opts.TTL,
	}
}

func (c *MemoryCache) Get(_ context.Context, receivableID string) (*risk.Assessment, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[receivableID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, receivableID)
		c.mu.Unlock()
		return nil, false, nil
	}
	a := entry.assessment
	return &a, true, nil
}

func (c *MemoryCache) Set(_ context.Context, receivableID string, a risk.Assessment) error {
	c.mu.Lock()
	c.entries[receivableID] = memoryEntry{assessment: a, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, receivableID string) error {
	c.mu.Lock()
	delete(c.entries, receivableID)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
