package blogapi

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/blogapi/store"
)

// BlogCache is an optional in-memory cache of the blog list with TTL. With a
// zero TTL every call goes straight to the store. Writes made through this
// process invalidate it; writes from other processes show up after the TTL.
type BlogCache struct {
	mu      sync.RWMutex
	posts   []store.BlogPost
	fetched time.Time
	ttl     time.Duration
	store   store.Store
}

// NewBlogCache creates a BlogCache backed by the given Store.
func NewBlogCache(s store.Store, ttl time.Duration) *BlogCache {
	return &BlogCache{store: s, ttl: ttl}
}

// Enabled reports whether results are cached at all.
func (c *BlogCache) Enabled() bool {
	return c.ttl > 0
}

func (c *BlogCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *BlogCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ListBlogs returns every blog post, from the cache when it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *BlogCache) ListBlogs(ctx context.Context) ([]store.BlogPost, error) {
	if !c.Enabled() {
		return c.store.ListBlogs(ctx)
	}

	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListBlogs(ctx)
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
