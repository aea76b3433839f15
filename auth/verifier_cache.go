package auth

import (
	"context"
	"sync"
	"time"
)

// CachedVerifier wraps an AdminVerifier with TTL-based caching so that
// RequireAuth does not hit the database on every request.
type CachedVerifier struct {
	inner AdminVerifier
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[uint]verdict
}

type verdict struct {
	ok        bool
	expiresAt time.Time
}

// NewCachedVerifier wraps inner; answers are kept for ttl.
func NewCachedVerifier(inner AdminVerifier, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[uint]verdict),
	}
}

// Verify reports whether adminID still exists, using the cache when fresh.
// Errors from the wrapped verifier are returned and never cached.
func (c *CachedVerifier) Verify(ctx context.Context, adminID uint) (bool, error) {
	c.mu.RLock()
	v, ok := c.cache[adminID]
	c.mu.RUnlock()
	if ok && c.now().Before(v.expiresAt) {
		return v.ok, nil
	}

	exists, err := c.inner(ctx, adminID)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.cache[adminID] = verdict{ok: exists, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return exists, nil
}

// Invalidate forgets the cached answer for adminID.
func (c *CachedVerifier) Invalidate(adminID uint) {
	c.mu.Lock()
	delete(c.cache, adminID)
	c.mu.Unlock()
}
