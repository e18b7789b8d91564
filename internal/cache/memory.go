package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

const defaultMaxEntries = 1000

type entry struct {
	createdAt time.Time
	recipe    types.Recipe
}

// MemoryCache is a bounded in-process cache. When full, expired entries are
// dropped first, then the oldest one.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries bounds the number of stored recipes.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithLogger sets the logger used by the sweeper.
func WithLogger(l *zap.Logger) MemoryOption {
	return func(c *MemoryCache) { c.logger = l }
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		logger:     zap.NewNop(),
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) expired(e entry, now time.Time) bool {
	return now.Sub(e.createdAt) >= c.ttl
}

// Get returns the recipe stored under key if it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string, now time.Time) (types.Recipe, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.expired(e, now) {
		return nil, false
	}
	return e.recipe, true
}

// Put stores recipe under key, replacing any previous entry.
func (c *MemoryCache) Put(_ context.Context, key string, recipe types.Recipe, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}
	c.entries[key] = entry{createdAt: now, recipe: recipe}
}

func (c *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.createdAt.Before(oldest) {
			oldestKey, oldest, found = k, e.createdAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

// Sweep removes expired entries and returns how many were removed.
func (c *MemoryCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(now)
}

func (c *MemoryCache) sweepLocked(now time.Time) int {
	removed := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// StartSweeper removes expired entries every interval until Close.
func (c *MemoryCache) StartSweeper(interval time.Duration, now func() time.Time) {
	c.done.Add(1)
	go func() {
		defer c.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if n := c.Sweep(now()); n > 0 {
					c.logger.Debug("swept expired recipes", zap.Int("removed", n))
				}
			}
		}
	}()
}

// Flush removes every entry.
func (c *MemoryCache) Flush(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

// Len counts stored entries, expired ones included until swept.
func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the sweeper.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.done.Wait()
	return nil
}
