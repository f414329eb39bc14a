package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared load once it no longer follows any caller's context.
const loadTimeout = 2 * time.Minute

// PageCache holds the most recently fetched pages.
type PageCache struct {
	mu          sync.RWMutex
	pages       []Page
	built       time.Time
	ttl         time.Duration
	loadTimeout time.Duration
	sf          singleflight.Group
	nowFunc     func() time.Time
}

// NewPageCache creates a cache whose pages go stale after ttl. A zero ttl
// never expires.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{ttl: ttl, loadTimeout: loadTimeout, nowFunc: time.Now}
}

// Pages returns the cached pages and whether there are any.
func (c *PageCache) Pages() ([]Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pages, len(c.pages) > 0
}

// IsExpired reports whether the pages are missing or older than the TTL.
func (c *PageCache) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.pages) == 0 {
		return true
	}
	return c.ttl > 0 && c.nowFunc().Sub(c.built) > c.ttl
}

// Get returns the cached pages, loading them first when expired or when force
// is set. Concurrent loads share one call of load. A load that yields no pages
// keeps the previous ones.
//
// The shared load keeps the values of the first caller's context but not its
// cancellation; a caller whose context ends stops waiting and the load goes on
// for the others.
func (c *PageCache) Get(ctx context.Context, force bool, load func(context.Context) ([]Page, error)) ([]Page, error) {
	if !force && !c.IsExpired() {
		pages, _ := c.Pages()
		return pages, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan("pages", func() (any, error) {
		lctx, cancel := context.WithTimeout(loadCtx, c.loadTimeout)
		defer cancel()

		pages, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if len(pages) > 0 {
			c.pages = pages
			c.built = c.nowFunc()
		}
		return c.pages, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Page), nil
	}
}
