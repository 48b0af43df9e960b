package blogapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/blogapi/store"
)

// countingStore counts ListBlogs calls; other methods are not used.
type countingStore struct {
	store.Store
	calls int
	err   error
}

func (s *countingStore) ListBlogs(context.Context) ([]store.BlogPost, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []store.BlogPost{{Title: "cached"}}, nil
}

func TestBlogCacheDisabledPassesThrough(t *testing.T) {
	s := &countingStore{}
	c := NewBlogCache(s, 0)
	for i := 0; i < 3; i++ {
		if _, err := c.ListBlogs(context.Background()); err != nil {
			t.Fatalf("ListBlogs failed: %v", err)
		}
	}
	if s.calls != 3 {
		t.Errorf("calls = %d, want 3", s.calls)
	}
}

func TestBlogCacheServesWithinTTL(t *testing.T) {
	s := &countingStore{}
	c := NewBlogCache(s, time.Minute)
	for i := 0; i < 3; i++ {
		posts, err := c.ListBlogs(context.Background())
		if err != nil {
			t.Fatalf("ListBlogs failed: %v", err)
		}
		if len(posts) != 1 || posts[0].Title != "cached" {
			t.Fatalf("posts = %+v", posts)
		}
	}
	if s.calls != 1 {
		t.Errorf("calls = %d, want 1", s.calls)
	}

	c.Invalidate()
	if _, err := c.ListBlogs(context.Background()); err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if s.calls != 2 {
		t.Errorf("calls after Invalidate = %d, want 2", s.calls)
	}
}

func TestBlogCacheExpires(t *testing.T) {
	s := &countingStore{}
	c := NewBlogCache(s, 20*time.Millisecond)
	c.ListBlogs(context.Background())
	time.Sleep(40 * time.Millisecond)
	c.ListBlogs(context.Background())
	if s.calls != 2 {
		t.Errorf("calls = %d, want 2", s.calls)
	}
}

func TestBlogCacheDoesNotCacheErrors(t *testing.T) {
	s := &countingStore{err: errors.New("down")}
	c := NewBlogCache(s, time.Minute)
	if _, err := c.ListBlogs(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	s.err = nil
	if _, err := c.ListBlogs(context.Background()); err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if s.calls != 2 {
		t.Errorf("calls = %d, want 2", s.calls)
	}
}

func TestBlogCacheInvalidatedByWrites(t *testing.T) {
	app := newTestApp(t, func(c *Config) { c.BlogCacheTTL = time.Minute })
	cookie := login(t, app, `{"email":"a@b.com"}`)

	if rec := do(t, app, "GET", "/blogs", ""); rec.Body.String() != "[]\n" {
		t.Fatalf("initial list = %q", rec.Body.String())
	}
	if rec := do(t, app, "POST", "/blogs", validBlog, cookie); rec.Code != 200 {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(t, app, "GET", "/blogs", "")
	if rec.Body.String() == "[]\n" {
		t.Error("cache served stale list after create")
	}
}
