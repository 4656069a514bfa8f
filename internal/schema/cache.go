package schema

import (
	"context"
	"sync"
	"time"
)

// CachedIntrospector memoizes a snapshot for a fixed TTL. The whole snapshot
// is swapped atomically; invalidation is time-based or via Invalidate.
type CachedIntrospector struct {
	inner Introspector
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	snapshot  Snapshot
	fetchedAt time.Time
	primed    bool
}

func NewCachedIntrospector(inner Introspector, ttl time.Duration) *CachedIntrospector {
	return &CachedIntrospector{inner: inner, ttl: ttl, now: time.Now}
}

func (c *CachedIntrospector) Describe(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.primed && c.now().Sub(c.fetchedAt) < c.ttl {
		snapshot := c.snapshot
		c.mu.Unlock()
		return snapshot, nil
	}
	c.mu.Unlock()

	snapshot, err := c.inner.Describe(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.fetchedAt = c.now()
	c.primed = true
	c.mu.Unlock()
	return snapshot, nil
}

func (c *CachedIntrospector) Invalidate() {
	c.mu.Lock()
	c.primed = false
	c.mu.Unlock()
}
