// Package ratelimit admits at most a fixed number of model calls in any
// trailing one-minute window. The window is global, not per client.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is the length of the sliding window.
const Window = time.Minute

// MemoryLimiter keeps the admission timestamps of the current window.
type MemoryLimiter struct {
	mu    sync.Mutex
	limit int
	hits  []time.Time
}

// NewMemoryLimiter admits up to limit calls per Window.
func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, hits: make([]time.Time, 0, limit)}
}

// Admit prunes the window and records now if there is room.
// A rejected call is not recorded.
func (l *MemoryLimiter) Admit(_ context.Context, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	if len(l.hits) >= l.limit {
		return false
	}
	l.hits = append(l.hits, now)
	return true
}

// Usage is the number of admissions within the window ending at now.
func (l *MemoryLimiter) Usage(_ context.Context, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	return len(l.hits)
}

func (l *MemoryLimiter) Limit() int {
	return l.limit
}

func (l *MemoryLimiter) pruneLocked(now time.Time) {
	kept := l.hits[:0]
	for _, t := range l.hits {
		if now.Sub(t) < Window {
			kept = append(kept, t)
		}
	}
	l.hits = kept
}
